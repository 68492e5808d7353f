// Package fs abstracts the file operations behind the local blob store.
//
// [LocalFS] is the production implementation. [FaultyFS] wraps another
// FileSystem and injects write, sync, close or rename failures into files
// matching a pattern:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("field.facc", fs.Fault{FailAfterBytes: 4096})
//	store := blobstore.NewLocalStoreFS(dir, ffs)
package fs
