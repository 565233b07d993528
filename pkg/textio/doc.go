// Package textio provides the text collaborators the editor saves to and
// loads from.
//
// A [Store] holds exactly one encoded document. Implementations:
//   - [Memory]: an in-process buffer, used by tests and the HTTP server
//   - [FileStore]: a single file on disk, used by the CLI
//   - [Stream]: a reader/writer pair such as stdin and stdout
//   - [RedisStore]: one key in Redis, for editors sharing a document
//   - [MongoStore]: one document in a MongoDB collection
//
// Every failure is reported as an IO_FAILURE error. Nothing is retried; the
// caller decides whether to try again.
//
// # Usage
//
//	store, err := textio.Open(ctx, textio.Config{Backend: textio.BackendFile, Path: "graph.json"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if err := store.WriteText(ctx, doc); err != nil {
//	    return err
//	}
package textio
