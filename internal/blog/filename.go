package blog

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PostExtension is the only accepted post file type.
const PostExtension = ".txt"

const maxFilenameLength = 255

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename turns an uploaded file name into the name a post is
// stored under. Names with path separators, NUL bytes or relative path
// components are rejected outright; what remains is reduced to ASCII letters,
// digits, '_', '.' and '-', with whitespace runs collapsed into '_'.
func SanitizeFilename(name string) (string, error) {
	if strings.ContainsAny(name, "/\\\x00") {
		return "", invalid("filename", "must not contain path separators or NUL bytes")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "." || trimmed == ".." {
		return "", invalid("filename", "must not be a relative path component")
	}

	ascii := make([]rune, 0, len(trimmed))
	for _, r := range norm.NFKD.String(trimmed) {
		if r < 0x80 {
			ascii = append(ascii, r)
		}
	}

	cleaned := strings.Join(strings.Fields(string(ascii)), "_")
	cleaned = unsafeFilenameChars.ReplaceAllString(cleaned, "")
	cleaned = strings.Trim(cleaned, "._")

	if cleaned == "" {
		return "", invalid("filename", "is empty after removing unsafe characters")
	}
	if len(cleaned) > maxFilenameLength {
		return "", invalid("filename", "is too long")
	}
	return cleaned, nil
}

// HasPostExtension reports whether name ends in PostExtension, ignoring case.
func HasPostExtension(name string) bool {
	return len(name) > len(PostExtension) &&
		strings.EqualFold(name[len(name)-len(PostExtension):], PostExtension)
}

// PostFilename resolves a post name from a URL, which usually omits the
// extension, to the stored filename. Stored names always end in the
// lower-case PostExtension, so "Shout", "Shout.txt" and "Shout.TXT" all
// resolve to "Shout.txt".
func PostFilename(postname string) string {
	if HasPostExtension(postname) {
		return postname[:len(postname)-len(PostExtension)] + PostExtension
	}
	return postname + PostExtension
}

// PostName strips the extension for display and links.
func PostName(filename string) string {
	if HasPostExtension(filename) {
		return filename[:len(filename)-len(PostExtension)]
	}
	return filename
}
