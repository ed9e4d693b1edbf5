package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

func AskConfirmation(in io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(in)
	_, _ = fmt.Fprintf(out, "%s: ", prompt)
	input, _ := reader.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}
