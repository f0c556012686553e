// Package vaultsync synchronizes a local document vault with a remote,
// versioned object repository that is reachable only through its REST
// surface.
//
// The engine replicates the semantics of a content-addressed object graph
// (immutable blobs, trees, and commits behind a mutable branch pointer)
// purely through REST calls: it detects which logical documents changed,
// builds exactly one atomic multi-file commit from the selected subset, and
// fast-forwards the branch ref without ever forcing it. Pull is the inverse
// and deliberately simpler: a full, remote-wins overwrite of the local
// documents, guarded by an explicit confirmation.
//
// # Design Principles
//
//   - One-shot workflows - a failed push is not resumable; the next attempt
//     restarts from the current branch head
//   - Fail fast - the first classified failure aborts the attempt; nothing
//     is retried at the workflow level
//   - Optimistic concurrency - no locks; the remote's fast-forward check at
//     ref-update time is the sole concurrency guard
//   - Content addressing - blob hashes are computed locally, so unchanged
//     selections short-circuit without creating any remote object
//
// # Basic Usage
//
//	client, err := remote.New(&remote.Options{
//	    Owner:      "acme",
//	    Repo:       "vault",
//	    Credential: token,
//	})
//	if err != nil {
//	    return err
//	}
//
//	syncer, err := vaultsync.New(client, &vaultsync.Options{
//	    Config:    store,          // config.Store with the sync target
//	    Documents: docstore.NewOSDir(vaultDir),
//	})
//	if err != nil {
//	    return err
//	}
//
//	changes, err := syncer.DetectChanges(ctx)
//	// ... let the user deselect entries ...
//	result, err := syncer.Push(ctx, changes, vaultsync.PushOptions{})
package vaultsync
