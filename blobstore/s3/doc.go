// Package s3 stores snapshots in Amazon S3 and tracks the latest one in
// DynamoDB.
//
// # Usage
//
//	store, err := s3.NewStoreFromConfig(ctx, "my-bucket",
//	    s3.WithPrefix("indexes/orders"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	ptr := s3.NewPointerStore(dynamodb.NewFromConfig(cfg), "nindex-pointers", "orders")
//	err = snapshot.Publish(ctx, store, ptr, "orders", tree.Bytes())
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads through the SDK upload manager, with CRC32C checksums
//   - Conditional creates (If-None-Match)
//   - Automatic pagination for listing
//   - DynamoDB conditional writes for the latest-snapshot pointer
package s3
