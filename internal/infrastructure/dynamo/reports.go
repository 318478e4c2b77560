package dynamo

import (
	"context"
	"fmt"

	"github.com/agency-api/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ReportRepo provides typed DynamoDB operations for the reports table.
type ReportRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReportRepo(client *dynamodb.Client, tableName string) *ReportRepo {
	return &ReportRepo{client: client, tableName: tableName}
}

func (r *ReportRepo) Put(ctx context.Context, rep *domain.Report) error {
	item, err := attributevalue.MarshalMap(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ReportRepo) Get(ctx context.Context, reportID string) (*domain.Report, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("report_id", reportID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("report not found: %w", domain.ErrNotFound)
	}
	var rep domain.Report
	if err := attributevalue.UnmarshalMap(out.Item, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// ListRecentByAgent returns the agent's most recent reports, newest first.
func (r *ReportRepo) ListRecentByAgent(ctx context.Context, agentID string, limit int32) ([]domain.Report, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("agent_id-created_at-index"),
		KeyConditionExpression:    aws.String("agent_id = :a"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":a": &types.AttributeValueMemberS{Value: agentID}},
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(limit),
	})
	if err != nil {
		return nil, err
	}
	var reports []domain.Report
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepo) Delete(ctx context.Context, reportID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("report_id", reportID),
	})
	return err
}
