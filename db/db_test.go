package db

import (
	"testing"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/notetree/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
	table string
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	f.table = *in.TableName
	f.items[*in.Item["name"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key["name"].S]}, nil
}

func TestSaveAndGetScore(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	archive := NewArchiveWithClient(fake, "scores")
	notes := []model.Note{
		{Frequency: 261.6, Bar: 0, SubIndex: 0},
		{Frequency: 329.6, Bar: 0, SubIndex: 0.5},
	}

	require.NoError(t, archive.SaveScore("ode", notes))
	assert.Equal(t, "scores", fake.table)
	assert.Len(t, fake.items["ode"]["notes"].L, 2)

	got, err := archive.GetScore("ode")
	require.NoError(t, err)
	assert.Equal(t, notes, got)
}

func TestGetMissingScore(t *testing.T) {
	archive := NewArchiveWithClient(&fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}, "scores")
	_, err := archive.GetScore("nope")
	assert.True(t, errors.Is(err, ErrScoreNotFound))

	assert.Error(t, archive.SaveScore("", nil))
}
