package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/docsync"
	"github.com/fwojciec/docsync/extract"
	"github.com/fwojciec/docsync/fs"
	"github.com/fwojciec/docsync/reconcile"
	"github.com/fwojciec/docsync/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB          *sqlite.DB
	Extractor   *extract.Extractor
	Reconciler  *reconcile.Reconciler
	Archive     *fs.Archive
	Reports     docsync.ReportWriter
	History     docsync.ReportService
	Asker       docsync.Asker
	Provisioner docsync.IndexProvisioner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Bootstrap BootstrapCmd `cmd:"" help:"Create the vector store with a static chunking strategy"`
	Sync      SyncCmd      `cmd:"" help:"Synchronize help-center articles into the vector store"`
	Preview   PreviewCmd   `cmd:"" help:"Show which articles would be synced without changing anything"`
	Status    StatusCmd    `cmd:"" help:"Show recent sync run reports"`
	Ask       AskCmd       `cmd:"" help:"Ask a question answered from the synced corpus"`
}

// BootstrapCmd is the "bootstrap" subcommand.
type BootstrapCmd struct {
	Name         string `default:"OptiSigns Knowledge Base" help:"Vector store name"`
	ChunkSize    int    `env:"DOCSYNC_CHUNK_SIZE" default:"800" help:"Chunk size in tokens"`
	ChunkOverlap int    `env:"DOCSYNC_CHUNK_OVERLAP" default:"200" help:"Chunk overlap in tokens"`
}

// SyncCmd is the "sync" subcommand.
type SyncCmd struct {
	BaseURL      string `env:"DOCSYNC_BASE_URL" default:"https://support.optisigns.com/hc/en-us" help:"Help-center base URL"`
	Locale       string `env:"DOCSYNC_LOCALE" default:"en-us" help:"Help-center locale"`
	MaxArticles  int    `short:"n" env:"DOCSYNC_MAX_ARTICLES" default:"45" help:"Maximum number of articles to sync"`
	ChunkSize    int    `env:"DOCSYNC_CHUNK_SIZE" default:"800" help:"Chunk size in tokens for the chunk estimate"`
	ChunkOverlap int    `env:"DOCSYNC_CHUNK_OVERLAP" default:"200" help:"Chunk overlap in tokens for the chunk estimate"`
	Offline      bool   `help:"Reconcile from the committed local corpus without fetching"`
}

// PreviewCmd is the "preview" subcommand.
type PreviewCmd struct {
	BaseURL     string `env:"DOCSYNC_BASE_URL" default:"https://support.optisigns.com/hc/en-us" help:"Help-center base URL"`
	Locale      string `env:"DOCSYNC_LOCALE" default:"en-us" help:"Help-center locale"`
	MaxArticles int    `short:"n" env:"DOCSYNC_MAX_ARTICLES" default:"45" help:"Maximum number of articles to list"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Limit int  `short:"n" default:"10" help:"Number of recent runs to show"`
	Last  bool `help:"Show only the most recent run"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the synced documentation"`
}
