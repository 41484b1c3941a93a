// Package display defines the character display the appliance writes
// status text and captions to.
//
// The contract is intentionally small — the interaction logic only needs
// "accepts a string" and "supports clear". The real panel is a 16x2
// HD44780; a console backend mimics it for desk-side development.
package display

// Display is a character display.
type Display interface {
	// Write clears the display and shows text, wrapped to the panel
	// geometry. Overflow beyond the last row is dropped.
	Write(text string) error

	// Clear blanks the display.
	Clear() error

	// Close releases the display hardware.
	Close() error
}

// Wrap breaks text into at most rows lines of at most columns characters,
// preferring word boundaries. Shared by backends so both render the same
// layout.
func Wrap(text string, columns, rows int) []string {
	if columns <= 0 || rows <= 0 {
		return nil
	}

	var lines []string
	line := ""
	flush := func() {
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
	}

	for _, word := range splitWords(text) {
		for len(word) > columns {
			flush()
			lines = append(lines, word[:columns])
			word = word[columns:]
		}
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= columns:
			line += " " + word
		default:
			flush()
			line = word
		}
	}
	flush()

	if len(lines) > rows {
		lines = lines[:rows]
	}
	return lines
}

func splitWords(text string) []string {
	var words []string
	start := -1
	for i, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			if start >= 0 {
				words = append(words, text[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, text[start:])
	}
	return words
}
