// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package plugin

import (
	"regexp"
	"strings"
)

var segmentPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func validPath(path string) bool {
	if path == "" {
		return false
	}
	for seg := range strings.SplitSeq(path, ".") {
		if !segmentPattern.MatchString(seg) {
			return false
		}
	}
	return true
}

func validSegment(name string) bool {
	return segmentPattern.MatchString(name)
}

// SplitName splits a full plugin name at its last dot into category and
// plugin name. ok is false when either part is empty.
func SplitName(fullName string) (category, name string, ok bool) {
	i := strings.LastIndexByte(fullName, '.')
	if i <= 0 || i == len(fullName)-1 {
		return "", "", false
	}
	return fullName[:i], fullName[i+1:], true
}

// JoinName builds a full plugin name.
func JoinName(category, name string) string {
	return category + "." + name
}

// isUnder reports whether path equals anchor or lies below it.
func isUnder(path, anchor string) bool {
	return path == anchor || strings.HasPrefix(path, anchor+".")
}
