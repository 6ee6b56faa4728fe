//go:build !cow

package mmap

const cowEnabled = false
