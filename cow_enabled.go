//go:build cow

package mmap

const cowEnabled = true
