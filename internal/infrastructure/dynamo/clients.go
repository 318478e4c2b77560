package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/agency-api/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ClientRepo provides typed DynamoDB operations for the clients table.
type ClientRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewClientRepo(client *dynamodb.Client, tableName string) *ClientRepo {
	return &ClientRepo{client: client, tableName: tableName}
}

func (r *ClientRepo) Put(ctx context.Context, c *domain.Client) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal client: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ClientRepo) Get(ctx context.Context, clientID string) (*domain.Client, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("client_id", clientID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("client not found: %w", domain.ErrNotFound)
	}
	var c domain.Client
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByAgent returns the agent's clients, newest first.
func (r *ClientRepo) ListByAgent(ctx context.Context, agentID string) ([]domain.Client, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("agent_id-created_at-index"),
		KeyConditionExpression:    aws.String("agent_id = :a"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":a": &types.AttributeValueMemberS{Value: agentID}},
		ScanIndexForward:          aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var clients []domain.Client
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// CountByAgentProspect counts the agent's clients, optionally filtered by
// prospect status. An empty prospect counts everything.
func (r *ClientRepo) CountByAgentProspect(ctx context.Context, agentID, prospect string) (int, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("agent_id-created_at-index"),
		KeyConditionExpression: aws.String("agent_id = :a"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":a": &types.AttributeValueMemberS{Value: agentID},
		},
		Select: types.SelectCount,
	}
	if prospect != "" {
		input.FilterExpression = aws.String("prospect = :p")
		input.ExpressionAttributeValues[":p"] = &types.AttributeValueMemberS{Value: prospect}
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return 0, err
	}
	return int(out.Count), nil
}

func (r *ClientRepo) Update(ctx context.Context, clientID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("client_id", clientID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *ClientRepo) Delete(ctx context.Context, clientID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("client_id", clientID),
	})
	return err
}
