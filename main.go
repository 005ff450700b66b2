package main

import (
	"os"

	"haligen/cmd" // CLI commands and exit status mapping
)

// main is the program entry point.
// It delegates to cmd.Execute(), which parses arguments, runs the command and
// returns the exit status. Nothing below main terminates the process.
//
// haligen generates an Ada Hardware Abstraction Layer crate from an SVD file:
//   - Locates svd2ada in a previous install directory or on PATH, and installs it
//     through Alire (`alr get -b`) after asking the operator when it is missing
//   - Creates a library crate with `alr init --lib` and adds the cross compiler
//   - Inserts the target and runtime into the crate's .gpr file exactly once
//   - Builds the bare crate, runs svd2ada into src/<package>, adds the hal crate
//     and builds again
//   - Records each completed stage in a JSON state file so an interrupted run
//     resumes where it stopped
func main() {
	os.Exit(cmd.Execute())
}
