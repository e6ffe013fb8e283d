// Package envfile reads and writes single KEY=value profile lines with
// godotenv. Values are only ever written in a form godotenv reads back
// unchanged.
package envfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

// ErrUnencodable is returned for a value no KEY=value line can carry.
var ErrUnencodable = errors.New("value cannot be stored on a single profile line")

// ErrNoKey is returned by ParseLine for a line without a KEY= part.
var ErrNoKey = errors.New("line has no key")

const sampleKey = "VALUE"

// Encode returns the right-hand side of a KEY=value line that parses back
// to exactly value. Plain tokens stay bare, everything else is quoted.
func Encode(value string) (string, error) {
	for _, candidate := range candidates(value) {
		if strings.ContainsAny(candidate, "\r\n") {
			continue
		}
		if decoded, err := decode(candidate); err == nil && decoded == value {
			return candidate, nil
		}
	}
	return "", ErrUnencodable
}

// Encodable reports whether Encode would succeed for value.
func Encodable(value string) bool {
	_, err := Encode(value)
	return err == nil
}

// Line renders key=value, or fails when value cannot be encoded.
func Line(key, value string) (string, error) {
	encoded, err := Encode(value)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return key + "=" + encoded, nil
}

// ParseLine parses one non-comment line. Comments and blank lines return
// ok=false without an error.
func ParseLine(line string) (key, value string, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	values, err := godotenv.Unmarshal(line)
	if err != nil {
		return "", "", false, err
	}
	if _, bare := values[""]; bare || len(values) != 1 {
		return "", "", false, ErrNoKey
	}
	for k, v := range values {
		key, value = k, v
	}
	return key, value, true, nil
}

// SplitRaw splits a line at its first '=' without interpreting quotes or
// escapes, dropping an "export " prefix.
func SplitRaw(line string) (key, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export "))
	key, value, ok = strings.Cut(trimmed, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func candidates(value string) []string {
	var out []string
	if isPlain(value) {
		out = append(out, value)
	}
	out = append(out, doubleQuote(value), value)
	if !strings.Contains(value, "'") {
		out = append(out, "'"+value+"'")
	}
	return out
}

func decode(encoded string) (string, error) {
	key, value, ok, err := ParseLine(sampleKey + "=" + encoded)
	if err != nil {
		return "", err
	}
	if !ok || key != sampleKey {
		return "", ErrNoKey
	}
	return value, nil
}

func isPlain(value string) bool {
	return value != "" && !strings.ContainsAny(value, " \t\r\n#\"'`$\\=")
}

// doubleQuote escapes what godotenv unescapes inside double quotes.
func doubleQuote(value string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		`$`, `\$`,
		"\n", `\n`,
		"\r", `\r`,
	)
	return `"` + r.Replace(value) + `"`
}
