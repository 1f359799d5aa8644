// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines FSInfo, which links a parsed definition back to the file
// it was read from. Catalogue validation errors report this path.
package model

// FSInfo holds file system metadata for a parsed definition.
type FSInfo struct {
	FilePath string
}

// NewFSInfo returns FSInfo for the given definition file.
func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{FilePath: filePath}
}
