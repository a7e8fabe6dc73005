package dynamodb

import (
	"context"
	"net/http"

	"docstore-backend/application/ports"
	"docstore-backend/domain/document"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Client is a DocumentClient bound to one table.
type Client struct {
	api     API
	table   string
	release func()
	logger  *zap.Logger
}

// NewClient binds api to table. release runs on Close and may be nil.
func NewClient(api API, table string, release func(), logger *zap.Logger) *Client {
	return &Client{api: api, table: table, release: release, logger: logger}
}

// Read fetches a document by id. A partition key other than the id cannot
// address an existing item.
func (c *Client) Read(ctx context.Context, id, partitionKey string) (ports.ItemResponse, error) {
	if partitionKey != id {
		return ports.ItemResponse{StatusCode: http.StatusNotFound}, nil
	}

	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.table),
		Key:            keyOf(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return ports.ItemResponse{}, classify("GetItem", c.table, err)
	}
	if len(out.Item) == 0 {
		return ports.ItemResponse{StatusCode: http.StatusNotFound}, nil
	}

	record, err := fromItem(out.Item)
	if err != nil {
		return ports.ItemResponse{}, classify("GetItem", c.table, err)
	}
	return ports.ItemResponse{StatusCode: http.StatusOK, Resource: &record}, nil
}

// Delete removes a document and reports 204, or 404 when nothing was there.
func (c *Client) Delete(ctx context.Context, id, partitionKey string) (ports.ItemResponse, error) {
	if partitionKey != id {
		return ports.ItemResponse{StatusCode: http.StatusNotFound}, nil
	}

	out, err := c.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(c.table),
		Key:          keyOf(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return ports.ItemResponse{}, classify("DeleteItem", c.table, err)
	}
	if len(out.Attributes) == 0 {
		return ports.ItemResponse{StatusCode: http.StatusNotFound}, nil
	}
	return ports.ItemResponse{StatusCode: http.StatusNoContent}, nil
}

// Upsert writes record unconditionally. It reports 201 when the id was new
// and 200 when an existing document was replaced.
func (c *Client) Upsert(ctx context.Context, record document.Record) (ports.ItemResponse, error) {
	av, err := toItem(record)
	if err != nil {
		return ports.ItemResponse{}, classify("PutItem", c.table, err)
	}

	out, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:    aws.String(c.table),
		Item:         av,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return ports.ItemResponse{}, classify("PutItem", c.table, err)
	}

	status := http.StatusCreated
	if len(out.Attributes) > 0 {
		status = http.StatusOK
	}
	stored := record
	return ports.ItemResponse{StatusCode: status, Resource: &stored}, nil
}

// Query returns every document whose message contains filter.Substring. A
// partition-scoped filter issues a Query, otherwise the table is scanned.
func (c *Client) Query(ctx context.Context, filter ports.MessageFilter) ([]document.Record, error) {
	cond := expression.Name(attrMessage).Contains(filter.Substring)
	builder := expression.NewBuilder().WithFilter(cond)
	if filter.PartitionKey != "" {
		builder = builder.WithKeyCondition(
			expression.Key(attrID).Equal(expression.Value(filter.PartitionKey)),
		)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, classify("Query", c.table, err)
	}

	if filter.PartitionKey != "" {
		return c.query(ctx, expr)
	}
	return c.scan(ctx, expr)
}

func (c *Client) query(ctx context.Context, expr expression.Expression) ([]document.Record, error) {
	p := dynamodb.NewQueryPaginator(c.api, &dynamodb.QueryInput{
		TableName:                 aws.String(c.table),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	records := []document.Record{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify("Query", c.table, err)
		}
		if records, err = appendItems(records, page.Items); err != nil {
			return nil, classify("Query", c.table, err)
		}
	}
	return records, nil
}

func (c *Client) scan(ctx context.Context, expr expression.Expression) ([]document.Record, error) {
	p := dynamodb.NewScanPaginator(c.api, &dynamodb.ScanInput{
		TableName:                 aws.String(c.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	records := []document.Record{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classify("Scan", c.table, err)
		}
		if records, err = appendItems(records, page.Items); err != nil {
			return nil, classify("Scan", c.table, err)
		}
	}
	return records, nil
}

func appendItems(records []document.Record, items []map[string]types.AttributeValue) ([]document.Record, error) {
	for _, av := range items {
		r, err := fromItem(av)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// Close releases the client's HTTP connections.
func (c *Client) Close() error {
	if c.release != nil {
		c.release()
	}
	c.logger.Debug("Closed DynamoDB client", zap.String("table", c.table))
	return nil
}
