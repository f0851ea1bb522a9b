// Command pagesim runs page-replacement policies over a reference trace and
// reports how many page faults each incurs.
package main

import "github.com/sarchlab/pagesim/pagesim/cmd"

func main() {
	cmd.Execute()
}
