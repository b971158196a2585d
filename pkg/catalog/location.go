package catalog

import "strings"

// ContentRoutePrefix is where locally hosted lecture files are served from.
const ContentRoutePrefix = "/lectures"

// ResolveLocation returns the URL a client should fetch lecture content from.
// Locations that are already absolute URLs (externally hosted content) pass
// through untouched. Anything else resolves to a path under the content
// root, shaped <prefix>/<subject>/<chapter>/<file>, with literal '#'
// characters escaped so they survive URL parsing.
func ResolveLocation(subjectName, chapterName, lectureName, location string) string {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return location
	}

	file := location
	if file == "" {
		file = lectureName
	}

	return ContentRoutePrefix + "/" +
		escapeSegment(subjectName) + "/" +
		escapeSegment(chapterName) + "/" +
		escapeSegment(file)
}

func escapeSegment(s string) string {
	return strings.ReplaceAll(s, "#", "%23")
}
