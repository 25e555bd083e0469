package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gochat/internal/common"
	"gochat/internal/config"
)

// Mongo backs the Store with one collection per document kind, keyed by _id.
type Mongo struct {
	client        *mongo.Client
	users         *mongo.Collection
	conversations *mongo.Collection
	groups        *mongo.Collection
	groupMessages *mongo.Collection
	friends       *mongo.Collection
}

func NewMongo(c *config.Config) (*Mongo, error) {
	clientOptions := options.Client().ApplyURI(c.Mongo.URI)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(c.Mongo.Database)
	return &Mongo{
		client:        client,
		users:         db.Collection("users"),
		conversations: db.Collection("conversations"),
		groups:        db.Collection("groups"),
		groupMessages: db.Collection("group_messages"),
		friends:       db.Collection("friends"),
	}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var upsert = options.Replace().SetUpsert(true)

func (m *Mongo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := m.users.FindOne(ctx, bson.M{"_id": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *Mongo) CreateUser(ctx context.Context, user *User) error {
	_, err := m.users.ReplaceOne(ctx, bson.M{"_id": user.Email}, user, upsert)
	return err
}

func (m *Mongo) UpdateUser(ctx context.Context, user *User) error {
	return m.CreateUser(ctx, user)
}

func (m *Mongo) GetConversation(ctx context.Context, conversationID string) (*Conversation, error) {
	var conv Conversation
	err := m.conversations.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (m *Mongo) PutConversation(ctx context.Context, conv *Conversation) error {
	_, err := m.conversations.ReplaceOne(ctx, bson.M{"_id": conv.ConversationID}, conv, upsert)
	return err
}

func (m *Mongo) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	var group Group
	err := m.groups.FindOne(ctx, bson.M{"_id": groupID}).Decode(&group)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (m *Mongo) PutGroup(ctx context.Context, group *Group) error {
	_, err := m.groups.ReplaceOne(ctx, bson.M{"_id": group.GroupID}, group, upsert)
	return err
}

func (m *Mongo) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := m.groups.DeleteOne(ctx, bson.M{"_id": groupID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (m *Mongo) ListGroupsFor(ctx context.Context, email string) ([]*Group, error) {
	cursor, err := m.groups.Find(ctx, bson.M{"members": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []*Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (m *Mongo) GetGroupMessages(ctx context.Context, groupID string) ([]Message, error) {
	var doc GroupMessages
	err := m.groupMessages.FindOne(ctx, bson.M{"_id": groupID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Messages, nil
}

func (m *Mongo) UpdateGroupMessages(ctx context.Context, groupID string, messages []Message) error {
	doc := GroupMessages{GroupID: groupID, Messages: messages}
	_, err := m.groupMessages.ReplaceOne(ctx, bson.M{"_id": groupID}, &doc, upsert)
	return err
}

func (m *Mongo) DeleteGroupMessages(ctx context.Context, groupID string) error {
	_, err := m.groupMessages.DeleteOne(ctx, bson.M{"_id": groupID})
	return err
}

func (m *Mongo) GetFriendLists(ctx context.Context, email string) (*FriendLists, error) {
	var lists FriendLists
	err := m.friends.FindOne(ctx, bson.M{"_id": email}).Decode(&lists)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &FriendLists{Email: email}, nil
	}
	if err != nil {
		return nil, err
	}
	return &lists, nil
}

func (m *Mongo) SetFriendLists(ctx context.Context, lists *FriendLists) error {
	_, err := m.friends.ReplaceOne(ctx, bson.M{"_id": lists.Email}, lists, upsert)
	return err
}
