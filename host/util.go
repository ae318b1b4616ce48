// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errOutOfRange = errors.New("value out of range")

// parseNumber parses a numeric literal. A '$' or '0x' prefix selects
// hexadecimal, '%' or '0b' binary. Unprefixed literals are decimal unless
// hexMode is set.
func parseNumber(s string, hexMode bool) (int64, error) {
	t := strings.ToLower(s)
	neg := strings.HasPrefix(t, "-")
	if neg {
		t = t[1:]
	}

	base := 10
	switch {
	case strings.HasPrefix(t, "$"):
		base, t = 16, t[1:]
	case strings.HasPrefix(t, "0x"):
		base, t = 16, t[2:]
	case strings.HasPrefix(t, "%"):
		base, t = 2, t[1:]
	case strings.HasPrefix(t, "0b") && !hexMode:
		base, t = 2, t[2:]
	case hexMode:
		base = 16
	}

	v, err := strconv.ParseInt(t, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s'", s)
	}
	if neg {
		v = -v
	}
	return v, nil
}

func parseRanged(s string, hexMode bool, lo, hi int64) (int64, error) {
	v, err := parseNumber(s, hexMode)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s: %w", s, errOutOfRange)
	}
	return v, nil
}

func parseAddr(s string, hexMode bool) (uint16, error) {
	v, err := parseRanged(s, hexMode, 0, 0xffff)
	return uint16(v), err
}

func parseByte(s string, hexMode bool) (byte, error) {
	v, err := parseRanged(s, hexMode, -128, 0xff)
	return byte(v), err
}

func parseCount(s string, hexMode bool) (int, error) {
	v, err := parseRanged(s, hexMode, 0, 1<<31-1)
	return int(v), err
}

func codeString(b []byte) string {
	switch len(b) {
	case 1:
		return fmt.Sprintf("%02X", b[0])
	case 2:
		return fmt.Sprintf("%02X %02X", b[0], b[1])
	case 3:
		return fmt.Sprintf("%02X %02X %02X", b[0], b[1], b[2])
	default:
		return ""
	}
}

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false", "off":
		return false, nil
	case "1", "true", "on":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

var hexString = "0123456789ABCDEF"

func addrToBuf(addr uint16, b []byte) {
	b[0] = hexString[(addr>>12)&0xf]
	b[1] = hexString[(addr>>8)&0xf]
	b[2] = hexString[(addr>>4)&0xf]
	b[3] = hexString[addr&0xf]
}

func byteToBuf(v byte, b []byte) {
	b[0] = hexString[(v>>4)&0xf]
	b[1] = hexString[v&0xf]
}

func toPrintableChar(v byte) byte {
	if v >= 32 && v < 127 {
		return v
	}
	return '.'
}
