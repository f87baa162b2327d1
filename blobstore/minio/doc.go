// Package minio provides a blobstore.ConditionalStore on MinIO and other
// S3-compatible servers (Ceph, SeaweedFS, Garage) using the MinIO client.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "indexes/")
//	err = snapshot.Save(ctx, store, "orders-000001", tree.Bytes())
//
// Conditional writes use If-None-Match, which MinIO supports natively.
package minio
