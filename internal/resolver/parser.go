package resolver

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// reply holds the fields extracted from a Sesame plain text answer.
type reply struct {
	RA         float64
	Dec        float64
	ObjectType string
}

// parseReply picks the position and object type out of a plain text
// Sesame answer. The format is line oriented: "%J <ra> <dec> ..." carries
// the ICRS position in decimal degrees, "%C.0 <type>" the object type,
// and lines starting with "#!" report lookup errors. Only the first %J
// line counts; everything else is ignored.
func parseReply(body string) (reply, error) {
	var (
		r         reply
		havePos   bool
		errorLine string
	)

	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "%J ") && !havePos:
			fields := strings.Fields(line)
			if len(fields) < 3 {
				continue
			}
			ra, errRA := strconv.ParseFloat(fields[1], 64)
			dec, errDec := strconv.ParseFloat(fields[2], 64)
			if errRA != nil || errDec != nil {
				continue
			}
			r.RA = ra
			r.Dec = dec
			havePos = true

		case strings.HasPrefix(line, "%C.0"):
			fields := strings.Fields(line)
			if len(fields) >= 2 && r.ObjectType == "" {
				r.ObjectType = fields[1]
			}

		case strings.HasPrefix(line, "#!"):
			if errorLine == "" {
				errorLine = strings.TrimSpace(strings.TrimPrefix(line, "#!"))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return reply{}, fmt.Errorf("failed to read resolver reply: %w", err)
	}

	if !havePos {
		if errorLine != "" {
			return reply{}, fmt.Errorf("%w: %s", ErrNotFound, errorLine)
		}
		return reply{}, fmt.Errorf("%w: no position in reply", ErrNotFound)
	}

	return r, nil
}
