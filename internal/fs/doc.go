// Package fs abstracts the filesystem calls made by blobstore.LocalStore so
// tests can inject write, sync and rename failures.
//
// Production code uses fs.Default. Tests wrap it in a FaultyFS:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp", fs.Fault{FailOnSync: true})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
package fs
