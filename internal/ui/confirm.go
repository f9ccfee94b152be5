package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Input is where prompts read answers from.
var Input io.Reader = os.Stdin

// Confirm prompts the user with a yes/no question. Returns true for yes.
func Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", StyleWarning.Render(prompt))
	return isYes(readLine())
}

// ConfirmDanger is like Confirm but styled with the error color (for destructive actions).
func ConfirmDanger(prompt string) bool {
	fmt.Printf("%s [y/N]: ", StyleError.Render("⚠ "+prompt))
	return isYes(readLine())
}

// PromptInput asks for a line of free text.
func PromptInput(prompt string) string {
	fmt.Printf("%s: ", StyleAccent.Render(prompt))
	return readLine()
}

// DangerBox draws content in a red-bordered box.
func DangerBox(content string) string {
	return StyleBorder.BorderForeground(ColorError).Render(content)
}

// One buffered reader is kept per Input so bytes read ahead for one prompt
// are still there for the next.
var (
	inputMu     sync.Mutex
	inputSrc    io.Reader
	inputReader *bufio.Reader
)

func readLine() string {
	inputMu.Lock()
	defer inputMu.Unlock()
	if inputReader == nil || inputSrc != Input {
		inputSrc = Input
		inputReader = bufio.NewReader(Input)
	}
	line, _ := inputReader.ReadString('\n')
	return strings.TrimSpace(line)
}

func isYes(s string) bool {
	s = strings.ToLower(s)
	return s == "y" || s == "yes"
}
