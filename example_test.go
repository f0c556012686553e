package vaultsync_test

import (
	"context"
	"fmt"
	"log"

	"github.com/kitedocs/vaultsync"
	"github.com/kitedocs/vaultsync/config"
	"github.com/kitedocs/vaultsync/docstore"
	"github.com/kitedocs/vaultsync/remote"
)

// Example demonstrates the detect, select, push workflow against a remote
// repository.
func Example() {
	ctx := context.Background()

	// The sync target lives in the user's config directory.
	store, err := config.NewFileStore("")
	if err != nil {
		log.Fatal(err)
	}
	target, err := store.Load()
	if err != nil {
		log.Fatal(err)
	}

	client, err := remote.New(&remote.Options{
		Owner:      target.Owner,
		Repo:       target.Repo,
		Credential: target.Credential,
	})
	if err != nil {
		log.Fatal(err)
	}

	syncer, err := vaultsync.New(client, &vaultsync.Options{
		Config:    store,
		Documents: docstore.NewOSDir("/home/user/vault"),
		OnStatus: func(s vaultsync.Status) {
			fmt.Printf("[%s] %s\n", s.Level, s.Message)
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	// Verify access before doing any work, so the UI can distinguish
	// "log in again" from "ask an admin".
	if _, err := syncer.ValidateAccess(ctx); err != nil {
		log.Fatal(err)
	}

	changes, err := syncer.DetectChanges(ctx)
	if err != nil {
		log.Fatal(err)
	}

	// Deselect anything the user does not want to publish yet.
	for i := range changes {
		if changes[i].LogicalName == "settings" {
			changes[i].Selected = false
		}
	}

	result, err := syncer.Push(ctx, changes, vaultsync.PushOptions{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("pushed %d documents as %.7s\n", result.FilesUpdated, result.CommitHash)
}

// ExampleSyncer_Pull demonstrates the destructive pull workflow with its
// required confirmation.
func ExampleSyncer_Pull() {
	ctx := context.Background()

	store, err := config.NewFileStore("")
	if err != nil {
		log.Fatal(err)
	}
	target, err := store.Load()
	if err != nil {
		log.Fatal(err)
	}

	client, err := remote.New(&remote.Options{
		Owner:      target.Owner,
		Repo:       target.Repo,
		Credential: target.Credential,
	})
	if err != nil {
		log.Fatal(err)
	}

	syncer, err := vaultsync.New(client, &vaultsync.Options{
		Config:    store,
		Documents: docstore.NewOSDir("/home/user/vault"),
	})
	if err != nil {
		log.Fatal(err)
	}

	// Pull overwrites local edits, so the caller has to confirm first.
	result, err := syncer.Pull(ctx, vaultsync.PullOptions{Confirmed: true})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("pulled %d documents\n", result.FilesUpdated)
}
