package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/nindex/blobstore"
)

// PointerStore implements blobstore.Pointer with DynamoDB conditional
// writes, giving S3 snapshots the compare-and-swap S3 itself lacks.
//
// Table schema:
//   - Partition key: index (string), the logical index name
//   - Sort key: version (number), monotonically increasing
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name nindex-pointers \
//	  --attribute-definitions AttributeName=index,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=index,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type PointerStore struct {
	client DDBClient
	table  string
	index  string
	now    func() time.Time
}

var _ blobstore.Pointer = (*PointerStore)(nil)

// Entry is one committed version.
type Entry struct {
	Version     uint64
	Name        string
	CommittedAt time.Time
}

// NewPointerStore tracks the snapshots of index in table.
func NewPointerStore(client DDBClient, table, index string) *PointerStore {
	return &PointerStore{client: client, table: table, index: index, now: time.Now}
}

func (p *PointerStore) query(ctx context.Context, limit int32) ([]Entry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(p.table),
		KeyConditionExpression: aws.String("#idx = :idx"),
		ExpressionAttributeNames: map[string]string{
			"#idx": "index",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":idx": &types.AttributeValueMemberS{Value: p.index},
		},
		ScanIndexForward: aws.Bool(false),
		ConsistentRead:   aws.Bool(true),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	resp, err := p.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("s3: query pointer %s: %w", p.index, err)
	}

	entries := make([]Entry, 0, len(resp.Items))
	for _, item := range resp.Items {
		e, err := decodeEntry(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeEntry(item map[string]types.AttributeValue) (Entry, error) {
	v, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return Entry{}, errors.New("s3: pointer item without version")
	}
	name, ok := item["snapshot"].(*types.AttributeValueMemberS)
	if !ok {
		return Entry{}, errors.New("s3: pointer item without snapshot")
	}
	version, err := strconv.ParseUint(v.Value, 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("s3: pointer version %q: %w", v.Value, err)
	}

	e := Entry{Version: version, Name: name.Value}
	if ts, ok := item["committed_at"].(*types.AttributeValueMemberS); ok {
		e.CommittedAt, _ = time.Parse(time.RFC3339Nano, ts.Value)
	}
	return e, nil
}

// Latest returns the newest committed snapshot name and version.
func (p *PointerStore) Latest(ctx context.Context) (string, uint64, error) {
	entries, err := p.query(ctx, 1)
	if err != nil {
		return "", 0, err
	}
	if len(entries) == 0 {
		return "", 0, blobstore.ErrNotFound
	}
	return entries[0].Name, entries[0].Version, nil
}

// Commit records name as version. It fails with
// blobstore.ErrConcurrentModification if version is not one past the
// latest, or if another writer commits the same version first.
func (p *PointerStore) Commit(ctx context.Context, version uint64, name string) error {
	_, latest, err := p.Latest(ctx)
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return err
	}
	if version != latest+1 {
		return fmt.Errorf("%w: version %d, latest %d", blobstore.ErrConcurrentModification, version, latest)
	}

	_, err = p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(p.table),
		Item: map[string]types.AttributeValue{
			"index":        &types.AttributeValueMemberS{Value: p.index},
			"version":      &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			"snapshot":     &types.AttributeValueMemberS{Value: name},
			"committed_at": &types.AttributeValueMemberS{Value: p.now().UTC().Format(time.RFC3339Nano)},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: version %d", blobstore.ErrConcurrentModification, version)
		}
		return fmt.Errorf("s3: commit pointer %s@%d: %w", p.index, version, err)
	}
	return nil
}

// History returns up to limit entries, newest first. limit <= 0 returns all.
func (p *PointerStore) History(ctx context.Context, limit int) ([]Entry, error) {
	return p.query(ctx, int32(min(max(limit, 0), 1<<30)))
}

// Prune deletes all but the newest keep entries and returns them so the
// caller can delete the snapshots they name.
func (p *PointerStore) Prune(ctx context.Context, keep int) ([]Entry, error) {
	entries, err := p.query(ctx, 0)
	if err != nil {
		return nil, err
	}
	if keep < 1 {
		keep = 1
	}
	if len(entries) <= keep {
		return nil, nil
	}

	pruned := entries[keep:]
	for _, e := range pruned {
		_, err := p.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(p.table),
			Key: map[string]types.AttributeValue{
				"index":   &types.AttributeValueMemberS{Value: p.index},
				"version": &types.AttributeValueMemberN{Value: strconv.FormatUint(e.Version, 10)},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("s3: prune pointer %s@%d: %w", p.index, e.Version, err)
		}
	}
	return pruned, nil
}
