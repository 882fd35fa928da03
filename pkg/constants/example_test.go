package constants_test

import (
	"fmt"
	"strings"

	"github.com/agentstation/modelmerge/pkg/constants"
)

// Example demonstrates the permission constants used for output files.
func Example() {
	fmt.Printf("Created dir with %o permissions\n", constants.DirPermissions)
	fmt.Printf("Created file with %o permissions\n", constants.FilePermissions)
	// Output:
	// Created dir with 755 permissions
	// Created file with 644 permissions
}

// Example_defaultOwners shows the default owner tokens in match order.
func Example_defaultOwners() {
	owners := constants.DefaultOwners()
	fmt.Println(len(owners))
	fmt.Println(strings.Join(owners[:3], ","))
	// Output:
	// 12
	// google,openai,bytedance
}

// Example_defaultOwnersIsolated shows that callers may modify the returned slice.
func Example_defaultOwnersIsolated() {
	owners := constants.DefaultOwners()
	owners[0] = "acme"
	fmt.Println(constants.DefaultOwners()[0])
	// Output: google
}
