package layout

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParsePlain extracts node centers from Graphviz "plain" output. Positions
// are returned as written: inches, y axis up.
//
// Each node line has the form
//
//	node name x y width height label style shape color fillcolor
//
// where name and label may be double-quoted.
func ParsePlain(data []byte) (map[string]Point, error) {
	pos := make(map[string]Point)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		fields, err := splitPlain(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("plain line %d: %w", line, err)
		}
		if len(fields) == 0 || fields[0] != "node" {
			if len(fields) > 0 && fields[0] == "stop" {
				break
			}
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("plain line %d: short node record", line)
		}
		x, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("plain line %d: x: %w", line, err)
		}
		y, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("plain line %d: y: %w", line, err)
		}
		pos[fields[1]] = Point{X: x, Y: y}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return pos, nil
}

// splitPlain splits on whitespace, honoring double quotes and backslash
// escapes inside them.
func splitPlain(s string) ([]string, error) {
	var (
		fields []string
		cur    strings.Builder
		inTok  bool
		quoted bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quoted && c == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case quoted && c == '"':
			quoted = false
		case quoted:
			cur.WriteByte(c)
		case c == '"':
			quoted, inTok = true, true
		case c == ' ' || c == '\t' || c == '\r':
			if inTok {
				fields = append(fields, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteByte(c)
			inTok = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inTok {
		fields = append(fields, cur.String())
	}
	return fields, nil
}
