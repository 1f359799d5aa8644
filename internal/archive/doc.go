// Package archive packs a project skeleton and the synthesized files into a
// single deliverable archive held in memory.
package archive
