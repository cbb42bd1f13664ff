// Package image loads and saves the 256 byte memory image of an rr machine.
//
// An image is exactly the raw contents of memory, address 0 first. Loading
// and saving never touch registers, flags or the program counter.
package image
