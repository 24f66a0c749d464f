package db

import (
	"github.com/jsphweid/notetree/constants"
	"github.com/jsphweid/notetree/model"
	"github.com/pkg/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

var ErrScoreNotFound = errors.New("score not found")

type scoreItem struct {
	Name  string       `dynamodbav:"name"`
	Notes []model.Note `dynamodbav:"notes"`
}

// Archive keeps named scores in a DynamoDB table keyed by "name".
type Archive struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewArchive() (*Archive, error) {
	endpoint := constants.GetDynamoEndpoint()
	session, err := session.NewSession(&aws.Config{
		Region:   aws.String(constants.GetDynamoRegion()),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewArchiveWithClient(dynamodb.New(session), constants.GetScoresTable()), nil
}

func NewArchiveWithClient(client dynamodbiface.DynamoDBAPI, table string) *Archive {
	return &Archive{client: client, table: table}
}

func (a *Archive) SaveScore(name string, notes []model.Note) error {
	if name == "" {
		return errors.New("score name must not be empty")
	}
	item, err := dynamodbattribute.MarshalMap(scoreItem{Name: name, Notes: notes})
	if err != nil {
		return errors.Wrap(err, "could not marshal score")
	}
	_, err = a.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(a.table),
		Item:      item,
	})
	if err != nil {
		return errors.Wrapf(err, "could not save score %v", name)
	}
	return nil
}

func (a *Archive) GetScore(name string) ([]model.Note, error) {
	res, err := a.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(a.table),
		Key: map[string]*dynamodb.AttributeValue{
			"name": {S: aws.String(name)},
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not get score %v", name)
	}
	if len(res.Item) == 0 {
		return nil, errors.Wrapf(ErrScoreNotFound, "%q", name)
	}
	var item scoreItem
	if err := dynamodbattribute.UnmarshalMap(res.Item, &item); err != nil {
		return nil, errors.Wrapf(err, "could not unmarshal score %v", name)
	}
	return item.Notes, nil
}
