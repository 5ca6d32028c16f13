// stctl is an operator CLI for the team status table.
//
// # Installation
//
//	go install github.com/acksell/statustable/dynamodb/cmd/stctl@latest
//
// # Commands
//
//	stctl get PK SK                               Print one item
//	stctl query PK [SK-PREFIX]                    Print a partition
//	stctl index GSI1PK [LO HI]                    Print a GSI1 partition
//	stctl delete PK SK                            Delete one item
//	stctl put-workload USER LEVEL PROJECTS TASKS  Save a workload status
//	stctl create-table                            Create the DynamoDB table
//	stctl validate                                Check the DynamoDB table schema
//
// Connection parameters are read from statustable.yaml, found by walking up
// from the working directory, or from the file given with -config.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

const version = "0.1.0"

var errNotFound = errors.New("not found")

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cmd {
	case "get":
		err = runGet(ctx, args)
	case "query":
		err = runQuery(ctx, args)
	case "index":
		err = runIndex(ctx, args)
	case "delete":
		err = runDelete(ctx, args)
	case "put-workload":
		err = runPutWorkload(ctx, args)
	case "create-table":
		err = runCreateTable(ctx, args)
	case "validate":
		err = runValidate(ctx, args)
	case "help", "-h", "--help":
		printUsage()
		return
	case "version", "-v", "--version":
		fmt.Printf("stctl version %s\n", version)
		return
	default:
		fmt.Fprintf(os.Stderr, "stctl: unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "stctl %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`stctl - team status table tools

Usage:
  stctl <command> [flags] [args]

Commands:
  get PK SK                               Print one item
  query PK [SK-PREFIX]                    Print the items of a partition
  index GSI1PK [LO HI]                    Print the items of a GSI1 partition
  delete PK SK                            Delete one item
  put-workload USER LEVEL PROJECTS TASKS  Save the workload status of a user
  create-table                            Create the DynamoDB table
  validate                                Check the DynamoDB table schema

Flags:
  -config PATH   configuration file (default: nearest statustable.yaml)
  -live          skip items past their TTL (get, query, index)

Configuration (optional):
  backend: badger        # badger | dynamodb
  table: team-status
  index: GSI1
  logLevel: info
  badger:
    path: ./data         # default .statustable, "" = in-memory
  dynamodb:
    region: eu-west-1
    endpoint: http://localhost:8000

Items are printed as JSON, one per line.`)
}
