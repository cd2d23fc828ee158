package scan

import (
	"path/filepath"
	"strings"
	"unicode"
)

// batchSuffixLen is the number of characters dropped from the end of the
// file stem before the letters and number are split.
const batchSuffixLen = 2

// maxLetters is the maximum length of the letter part of an identifier.
const maxLetters = 2

// ParseIdentifier derives the "<LETTERS>-<NUMBER>" identifier from a scan
// file name.
//
// The rule uses fixed offsets and must stay bit-compatible with the harvest
// records: drop the extension, drop the last two characters of what remains,
// then split off up to two trailing letters. Everything before the letters
// is the number, kept verbatim (leading zeros included, not validated).
//
//	0012ab21.jpg -> 0012ab21 -> 0012ab -> AB-0012
func ParseIdentifier(fileName string) (string, error) {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	runes := []rune(stem)
	if len(runes) < batchSuffixLen+2 {
		return "", &MalformedNameError{FileName: fileName, Reason: "name too short"}
	}
	core := runes[:len(runes)-batchSuffixLen]

	split := len(core)
	for split > 0 && len(core)-split < maxLetters && unicode.IsLetter(core[split-1]) {
		split--
	}
	if split == len(core) {
		return "", &MalformedNameError{FileName: fileName, Reason: "no letter code before batch suffix"}
	}
	if split == 0 {
		return "", &MalformedNameError{FileName: fileName, Reason: "no number before letter code"}
	}

	letters := strings.ToUpper(string(core[split:]))
	return letters + "-" + string(core[:split]), nil
}
