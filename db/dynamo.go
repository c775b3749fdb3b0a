package db

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/jsphweid/voicedex/model"
)

const ReportsTable = "voicedex-reports"

// DynamoDB caps BatchWriteItem at 25 requests
const batchWriteLimit = 25

type DynamoStore struct {
	client *dynamodb.DynamoDB
}

func NewDynamoStore(endpoint string) (*DynamoStore, error) {
	session, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("creating dynamodb session: %w", err)
	}
	return &DynamoStore{client: dynamodb.New(session)}, nil
}

func toItem(r model.QualityReport) (map[string]*dynamodb.AttributeValue, error) {
	item, err := dynamodbattribute.MarshalMap(r)
	if err != nil {
		return nil, err
	}
	item["PK"] = &dynamodb.AttributeValue{S: aws.String(r.ID)}
	return item, nil
}

func fromItem(item map[string]*dynamodb.AttributeValue) (model.QualityReport, error) {
	var r model.QualityReport
	err := dynamodbattribute.UnmarshalMap(item, &r)
	return r, err
}

// writeBatches splits reports into BatchWriteItem inputs.
func writeBatches(reports []model.QualityReport) ([]*dynamodb.BatchWriteItemInput, error) {
	var res []*dynamodb.BatchWriteItemInput
	for start := 0; start < len(reports); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(reports) {
			end = len(reports)
		}
		var requests []*dynamodb.WriteRequest
		for _, r := range reports[start:end] {
			item, err := toItem(r)
			if err != nil {
				return nil, fmt.Errorf("marshalling report %s: %w", r.File, err)
			}
			requests = append(requests, &dynamodb.WriteRequest{
				PutRequest: &dynamodb.PutRequest{Item: item},
			})
		}
		res = append(res, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]*dynamodb.WriteRequest{ReportsTable: requests},
		})
	}
	return res, nil
}

func (s *DynamoStore) Save(reports []model.QualityReport) error {
	prepare(reports)
	inputs, err := writeBatches(reports)
	if err != nil {
		return err
	}
	for _, input := range inputs {
		for len(input.RequestItems) > 0 {
			out, err := s.client.BatchWriteItem(input)
			if err != nil {
				return fmt.Errorf("error from DynamoDB: %w", err)
			}
			input = &dynamodb.BatchWriteItemInput{RequestItems: out.UnprocessedItems}
		}
	}
	return nil
}

func (s *DynamoStore) List() ([]model.QualityReport, error) {
	var res []model.QualityReport
	var decodeErr error
	input := &dynamodb.ScanInput{TableName: aws.String(ReportsTable)}
	err := s.client.ScanPages(input, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		for _, item := range page.Items {
			r, err := fromItem(item)
			if err != nil {
				decodeErr = err
				return false
			}
			res = append(res, r)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("error from DynamoDB: %w", err)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decoding report: %w", decodeErr)
	}
	return res, nil
}

func (s *DynamoStore) Close() error {
	return nil
}
