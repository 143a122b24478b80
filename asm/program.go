package asm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Program is an assembly listing, one Inst per line.
type Program []Inst

// CommentMarker starts a line that is dropped before any analysis.
const CommentMarker = ";"

// ParseProgram parses already trimmed lines.
func ParseProgram(lines []string) Program {
	prog := make(Program, 0, len(lines))
	for _, l := range lines {
		prog = append(prog, Parse(l))
	}

	return prog
}

// ReadProgram reads a listing. Lines starting with the comment marker are
// skipped, every other line is trimmed and parsed.
func ReadProgram(r io.Reader) (Program, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, CommentMarker) {
			continue
		}
		lines = append(lines, strings.TrimSpace(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listing: %w", err)
	}

	return ParseProgram(lines), nil
}

// LoadProgramFile reads the listing stored at path.
func LoadProgramFile(path string) (Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	prog, err := ReadProgram(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return prog, nil
}

// WriteProgram writes one line per instruction.
func WriteProgram(w io.Writer, prog Program) error {
	bw := bufio.NewWriter(w)
	for _, inst := range prog {
		if _, err := bw.WriteString(inst.Raw + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Lines returns the source text of every instruction.
func (p Program) Lines() []string {
	lines := make([]string, len(p))
	for i, inst := range p {
		lines[i] = inst.Raw
	}

	return lines
}

func (p Program) String() string {
	var sb strings.Builder
	for _, inst := range p {
		sb.WriteString(inst.Raw)
		sb.WriteByte('\n')
	}

	return sb.String()
}
