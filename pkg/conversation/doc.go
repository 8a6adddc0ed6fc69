// Package conversation implements the scripted chat that fills a
// portfolio.Data record. The script is a fixed list of steps consumed by
// index; each accepted submission appends to the transcript and commits one
// field. Rejected submissions return a sentinel error and change nothing.
//
// The engine itself holds no locks. Front ends that receive input from more
// than one goroutine (the HTTP surface, for example) drive it through a Loop,
// which also receives the deferred continuation scheduled after a color pick.
package conversation
