package service

import (
	"regexp"
	"strings"
)

// colorPattern accepts #rrggbb tags.
var colorPattern = regexp.MustCompile("^#[0-9a-fA-F]{6}$")

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title is required")
	}
	if len(title) > 255 {
		return "", invalid("title is too long")
	}
	return title, nil
}

// cleanColor allows an empty tag.
func cleanColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color != "" && !colorPattern.MatchString(color) {
		return "", invalid("bad color code: " + color)
	}
	return color, nil
}
