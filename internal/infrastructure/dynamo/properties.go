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

// PropertyRepo provides typed DynamoDB operations for the properties table.
type PropertyRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPropertyRepo(client *dynamodb.Client, tableName string) *PropertyRepo {
	return &PropertyRepo{client: client, tableName: tableName}
}

func (r *PropertyRepo) Put(ctx context.Context, p *domain.Property) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal property: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PropertyRepo) Get(ctx context.Context, propertyID string) (*domain.Property, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("property_id", propertyID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	var p domain.Property
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByAgent returns the agent's properties, newest first, via the
// agent_id/created_at GSI.
func (r *PropertyRepo) ListByAgent(ctx context.Context, agentID string) ([]domain.Property, error) {
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
	var props []domain.Property
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// ListAvailableByAgent returns the agent's AVAILABLE properties, newest first.
func (r *PropertyRepo) ListAvailableByAgent(ctx context.Context, agentID string) ([]domain.Property, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("agent_id-created_at-index"),
		KeyConditionExpression: aws.String("agent_id = :a"),
		FilterExpression:       aws.String("#s = :s"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":a": &types.AttributeValueMemberS{Value: agentID},
			":s": &types.AttributeValueMemberS{Value: domain.PropertyAvailable},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var props []domain.Property
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// CountByAgentStatus counts the agent's properties, optionally filtered by status.
// An empty status counts everything.
func (r *PropertyRepo) CountByAgentStatus(ctx context.Context, agentID, status string) (int, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("agent_id-created_at-index"),
		KeyConditionExpression: aws.String("agent_id = :a"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":a": &types.AttributeValueMemberS{Value: agentID},
		},
		Select: types.SelectCount,
	}
	if status != "" {
		input.FilterExpression = aws.String("#s = :s")
		input.ExpressionAttributeNames = map[string]string{"#s": "status"}
		input.ExpressionAttributeValues[":s"] = &types.AttributeValueMemberS{Value: status}
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return 0, err
	}
	return int(out.Count), nil
}

func (r *PropertyRepo) Update(ctx context.Context, propertyID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("property_id", propertyID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *PropertyRepo) Delete(ctx context.Context, propertyID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("property_id", propertyID),
	})
	return err
}
