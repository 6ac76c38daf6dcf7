package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/astro-web3/album-api/internal/domain/album"
	"github.com/astro-web3/album-api/pkg/logger"
)

const (
	// batchWriteLimit is the most items BatchWriteItem accepts per call.
	batchWriteLimit   = 25
	maxBatchAttempts  = 5
	batchRetryBackoff = 100 * time.Millisecond

	ownedCondition = "attribute_exists(id) AND userId = :sub"
)

// DynamoAPI is the subset of the DynamoDB client the album table uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

type dynamoRepository struct {
	client DynamoAPI
	table  string
}

// NewDynamoDBClient builds a client from the default AWS credential chain.
// A non-empty endpoint targets a local emulator.
func NewDynamoDBClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func NewDynamoRepository(client DynamoAPI, table string) album.Repository {
	return &dynamoRepository{client: client, table: table}
}

func (r *dynamoRepository) Put(ctx context.Context, a *album.Album) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("failed to marshal album: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

func (r *dynamoRepository) Get(ctx context.Context, id int, artist string) (*album.Album, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("id = :id AND artist = :a"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": numberValue(id),
			":a":  &types.AttributeValueMemberS{Value: artist},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query album: %w", err)
	}

	if len(out.Items) == 0 {
		return nil, album.ErrAlbumNotFound
	}

	var a album.Album
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal album: %w", err)
	}
	return &a, nil
}

func (r *dynamoRepository) List(ctx context.Context) ([]*album.Album, error) {
	albums := []*album.Album{}

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan albums: %w", err)
		}

		var batch []*album.Album
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal albums: %w", err)
		}
		albums = append(albums, batch...)
	}

	return albums, nil
}

func (r *dynamoRepository) Update(
	ctx context.Context,
	id int,
	artist, owner string,
	u album.Update,
) (*album.Album, error) {
	values, err := attributevalue.MarshalMap(map[string]any{
		":t":   u.Title,
		":g":   u.Genres,
		":rd":  u.ReleaseDate,
		":r":   u.Review,
		":sub": owner,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal update: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id":     numberValue(id),
			"artist": &types.AttributeValueMemberS{Value: artist},
		},
		UpdateExpression:          aws.String("SET title = :t, genres = :g, release_date = :rd, review = :r"),
		ConditionExpression:       aws.String(ownedCondition),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
		// The old item tells a missing album apart from someone else's.
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			if len(condErr.Item) == 0 {
				return nil, album.ErrAlbumNotFound
			}
			return nil, album.ErrForbidden
		}
		return nil, fmt.Errorf("failed to update album: %w", err)
	}

	var a album.Album
	if err := attributevalue.UnmarshalMap(out.Attributes, &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal album: %w", err)
	}
	return &a, nil
}

func (r *dynamoRepository) BatchPut(ctx context.Context, albums []*album.Album) error {
	for start := 0; start < len(albums); start += batchWriteLimit {
		end := min(start+batchWriteLimit, len(albums))

		requests := make([]types.WriteRequest, 0, end-start)
		for _, a := range albums[start:end] {
			item, err := attributevalue.MarshalMap(a)
			if err != nil {
				return fmt.Errorf("failed to marshal album %d: %w", a.ID, err)
			}
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}

		if err := r.writeBatch(ctx, requests); err != nil {
			return err
		}
	}
	return nil
}

// writeBatch resubmits unprocessed items until the table accepts them all.
func (r *dynamoRepository) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{r.table: requests}

	for attempt := 1; ; attempt++ {
		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("failed to batch write albums: %w", err)
		}

		left := len(out.UnprocessedItems[r.table])
		if left == 0 {
			return nil
		}
		if attempt == maxBatchAttempts {
			return fmt.Errorf("batch write left %d albums unprocessed after %d attempts", left, attempt)
		}

		logger.WarnContext(ctx, "retrying unprocessed albums",
			slog.Int("unprocessed", left),
			slog.Int("attempt", attempt),
		)
		pending = out.UnprocessedItems

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * batchRetryBackoff):
		}
	}
}

func numberValue(n int) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.Itoa(n)}
}
