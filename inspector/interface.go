package inspector

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunCLI runs the line-oriented command interface, the inspector's
// analogue of debugger.RunCLI.
func RunCLI(sess *Session) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(qpu-inspect) ")

		if !scanner.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(scanner.Text())
		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting inspector...")
			break
		}

		if err := sess.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		if output := sess.GetOutput(); output != "" {
			fmt.Print(output)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}
	return nil
}

// RunTUI runs the tview-based inspector UI.
func RunTUI(sess *Session) error {
	t := NewTUI(sess)
	return t.Run()
}
