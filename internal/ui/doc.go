package ui

// Package ui contains the console surface of the application: a FIFO action
// queue decoupling worker goroutines from rendering, and a terminal renderer
// for progress bars and log lines. Workers never touch the terminal
// directly; they enqueue actions that the drain loop applies in order.
