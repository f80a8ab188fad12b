package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ironsheep/image-proxy/internal/oplist"
)

// runEncode turns a JSON operation list into a URL spec segment. The JSON is
// the single argument, or standard input when the argument is "-".
func runEncode(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: image-proxy encode <json|->")
		return 2
	}

	input := []byte(args[0])
	if args[0] == "-" {
		var err error
		if input, err = io.ReadAll(stdin); err != nil {
			fmt.Fprintf(stderr, "failed to read stdin: %v\n", err)
			return 1
		}
	}

	var ops oplist.List
	if err := json.Unmarshal(input, &ops); err != nil {
		fmt.Fprintf(stderr, "invalid operation list: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, oplist.Encode(ops))
	return 0
}

// runDecode prints a spec segment as an indented JSON operation list.
func runDecode(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: image-proxy decode <spec>")
		return 2
	}

	ops, err := oplist.Decode(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "invalid spec: %v\n", err)
		return 1
	}

	out, err := json.MarshalIndent(ops, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "failed to format operations: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}
