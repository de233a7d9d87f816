//go:build !linux

package main

import "fmt"

// enableSingleView switches to the alternate screen and hides the cursor.
func enableSingleView() func() {
	fmt.Print("\033[?1049h\033[?25l")
	return func() {
		fmt.Print("\033[?25h\033[?1049l")
	}
}
