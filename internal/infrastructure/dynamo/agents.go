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

// AgentRepo provides typed DynamoDB operations for the agents table.
type AgentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAgentRepo(client *dynamodb.Client, tableName string) *AgentRepo {
	return &AgentRepo{client: client, tableName: tableName}
}

func (r *AgentRepo) Put(ctx context.Context, a *domain.Agent) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal agent: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AgentRepo) Get(ctx context.Context, agentID string) (*domain.Agent, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("agent_id", agentID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("agent not found: %w", domain.ErrNotFound)
	}
	var a domain.Agent
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByEmail resolves an agent via the email GSI. Email uniqueness is
// enforced by callers doing a lookup before create.
func (r *AgentRepo) GetByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("email-index"),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": "email"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("agent not found: %w", domain.ErrNotFound)
	}
	var a domain.Agent
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Update applies a partial field update. This is a plain UpdateItem without a
// condition expression, so concurrent OTP resend/verify against the same
// agent can race (last write wins) — accepted for a single user verifying
// their own email.
func (r *AgentRepo) Update(ctx context.Context, agentID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("agent_id", agentID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
