package main

import (
	"fmt"

	"github.com/fwojciec/docsync"
)

// Run executes the "bootstrap" command: create the vector store the
// sync will target and print its ID for the operator to export.
func (c *BootstrapCmd) Run(deps *Dependencies) error {
	id, err := deps.Provisioner.CreateIndex(deps.Ctx, c.Name, c.ChunkSize, c.ChunkOverlap)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsync.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Created vector store %q (chunk size %d, overlap %d)\n", c.Name, c.ChunkSize, c.ChunkOverlap)
	fmt.Fprintf(deps.Stdout, "%s\n", id)
	fmt.Fprintf(deps.Stdout, "Set VECTOR_STORE_ID=%s to sync into it.\n", id)
	return nil
}
