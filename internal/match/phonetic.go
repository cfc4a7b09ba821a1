package match

import "strings"

// phoneticSimilarity compares the phonetic encodings of two normalized
// names, token by token. It is the secondary signal that elevates a
// transliteration variant ("Tchaikovsky" vs "Chaykovskiy") above a naive
// edit-distance threshold.
func phoneticSimilarity(a, b string) float64 {
	return editSimilarity(phoneticEncode(a), phoneticEncode(b))
}

// phoneticEncode reduces a normalized name to a metaphone-style consonant
// skeleton: common digraphs are folded to a single sound, voiced/unvoiced
// pairs collapse, and non-leading vowels are dropped.
func phoneticEncode(name string) string {
	tokens := strings.Fields(name)
	encoded := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if code := encodeToken(tok); code != "" {
			encoded = append(encoded, code)
		}
	}
	return strings.Join(encoded, " ")
}

func encodeToken(tok string) string {
	r := []rune(tok)
	var b strings.Builder

	// Silent leading clusters.
	if len(r) >= 2 {
		switch string(r[:2]) {
		case "kn", "gn", "pn", "wr":
			r = r[1:]
		case "ps":
			r = r[1:]
		}
	}

	var last byte
	write := func(c byte) {
		if c != last {
			b.WriteByte(c)
			last = c
		}
	}

	for i := 0; i < len(r); i++ {
		c := r[i]
		var next rune
		if i+1 < len(r) {
			next = r[i+1]
		}

		switch c {
		case 'a', 'e', 'i', 'o', 'u', 'y':
			if i == 0 {
				write('a')
			}
		case 'b', 'p':
			write('p')
		case 'f', 'v', 'w':
			write('f')
		case 'c':
			switch {
			case next == 'h':
				write('x')
				i++
			case next == 'e' || next == 'i' || next == 'y':
				write('s')
			case next == 'k':
				write('k')
				i++
			default:
				write('k')
			}
		case 'k', 'q':
			write('k')
		case 'g':
			if next == 'h' {
				write('k')
				i++
			} else {
				write('k')
			}
		case 'j':
			write('x')
		case 's':
			if next == 'h' {
				write('x')
				i++
			} else {
				write('s')
			}
		case 'z', 'x':
			write('s')
		case 't':
			if next == 'h' {
				write('0')
				i++
			} else if next == 'c' && i+2 < len(r) && r[i+2] == 'h' {
				// tch -> ch
				write('x')
				i += 2
			} else {
				write('t')
			}
		case 'd':
			write('t')
		case 'm', 'n':
			write('n')
		case 'l':
			write('l')
		case 'r':
			write('r')
		case 'h':
			// Silent between encoding positions.
		default:
			// Digits and anything unclassified pass through.
			if c >= '0' && c <= '9' {
				write(byte(c))
			}
		}
	}
	return b.String()
}
