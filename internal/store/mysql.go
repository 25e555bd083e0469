package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"gochat/internal/common"
	"gochat/internal/config"
)

// Each store kind gets its own JSON-document table keyed by doc_key.
type userDoc struct {
	Key       string    `gorm:"primaryKey;column:doc_key;size:255"`
	Doc       string    `gorm:"column:doc;type:json"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (userDoc) TableName() string { return "user_docs" }

type conversationDoc struct {
	Key       string    `gorm:"primaryKey;column:doc_key;size:600"`
	Doc       string    `gorm:"column:doc;type:json"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (conversationDoc) TableName() string { return "conversation_docs" }

type groupDoc struct {
	Key       string    `gorm:"primaryKey;column:doc_key;size:64"`
	Doc       string    `gorm:"column:doc;type:json"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (groupDoc) TableName() string { return "group_docs" }

type groupMessagesDoc struct {
	Key       string    `gorm:"primaryKey;column:doc_key;size:64"`
	Doc       string    `gorm:"column:doc;type:json"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (groupMessagesDoc) TableName() string { return "group_message_docs" }

type friendDoc struct {
	Key       string    `gorm:"primaryKey;column:doc_key;size:255"`
	Doc       string    `gorm:"column:doc;type:json"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (friendDoc) TableName() string { return "friend_docs" }

// MySQL backs the Store with JSON documents in keyed rows.
type MySQL struct {
	db *gorm.DB
}

func NewMySQL(c *config.Config) (*MySQL, error) {
	db, err := gorm.Open(mysql.Open(c.DSN()), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Warn),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB error: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.MySQL.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MySQL.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(&userDoc{}, &conversationDoc{}, &groupDoc{}, &groupMessagesDoc{}, &friendDoc{}); err != nil {
		return nil, fmt.Errorf("failed to migrate document tables: %w", err)
	}

	return &MySQL{db: db}, nil
}

func (s *MySQL) get(ctx context.Context, table, key string, out interface{}) error {
	var doc string
	row := s.db.WithContext(ctx).Table(table).
		Select("doc").
		Where("doc_key = ?", key).
		Row()
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return err
	}
	return json.Unmarshal([]byte(doc), out)
}

// upsertDoc inserts or replaces one document row.
func (s *MySQL) upsertDoc(ctx context.Context, rec interface{}) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doc_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"doc"}),
		}).
		Create(rec).Error
}

func (s *MySQL) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := s.get(ctx, userDoc{}.TableName(), email, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MySQL) CreateUser(ctx context.Context, user *User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.upsertDoc(ctx, &userDoc{Key: user.Email, Doc: string(raw)})
}

func (s *MySQL) UpdateUser(ctx context.Context, user *User) error {
	return s.CreateUser(ctx, user)
}

func (s *MySQL) GetConversation(ctx context.Context, conversationID string) (*Conversation, error) {
	var conv Conversation
	if err := s.get(ctx, conversationDoc{}.TableName(), conversationID, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *MySQL) PutConversation(ctx context.Context, conv *Conversation) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return s.upsertDoc(ctx, &conversationDoc{Key: conv.ConversationID, Doc: string(raw)})
}

func (s *MySQL) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	var group Group
	if err := s.get(ctx, groupDoc{}.TableName(), groupID, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *MySQL) PutGroup(ctx context.Context, group *Group) error {
	raw, err := json.Marshal(group)
	if err != nil {
		return err
	}
	return s.upsertDoc(ctx, &groupDoc{Key: group.GroupID, Doc: string(raw)})
}

func (s *MySQL) DeleteGroup(ctx context.Context, groupID string) error {
	res := s.db.WithContext(ctx).Where("doc_key = ?", groupID).Delete(&groupDoc{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *MySQL) ListGroupsFor(ctx context.Context, email string) ([]*Group, error) {
	var docs []string
	err := s.db.WithContext(ctx).Table(groupDoc{}.TableName()).
		Where("JSON_CONTAINS(doc, JSON_QUOTE(?), '$.members')", email).
		Pluck("doc", &docs).Error
	if err != nil {
		return nil, err
	}

	groups := make([]*Group, 0, len(docs))
	for _, raw := range docs {
		var g Group
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			return nil, err
		}
		groups = append(groups, &g)
	}
	return groups, nil
}

func (s *MySQL) GetGroupMessages(ctx context.Context, groupID string) ([]Message, error) {
	var doc GroupMessages
	err := s.get(ctx, groupMessagesDoc{}.TableName(), groupID, &doc)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Messages, nil
}

func (s *MySQL) UpdateGroupMessages(ctx context.Context, groupID string, messages []Message) error {
	raw, err := json.Marshal(&GroupMessages{GroupID: groupID, Messages: messages})
	if err != nil {
		return err
	}
	return s.upsertDoc(ctx, &groupMessagesDoc{Key: groupID, Doc: string(raw)})
}

func (s *MySQL) DeleteGroupMessages(ctx context.Context, groupID string) error {
	return s.db.WithContext(ctx).Where("doc_key = ?", groupID).Delete(&groupMessagesDoc{}).Error
}

func (s *MySQL) GetFriendLists(ctx context.Context, email string) (*FriendLists, error) {
	var lists FriendLists
	err := s.get(ctx, friendDoc{}.TableName(), email, &lists)
	if errors.Is(err, common.ErrNotFound) {
		return &FriendLists{Email: email}, nil
	}
	if err != nil {
		return nil, err
	}
	return &lists, nil
}

func (s *MySQL) SetFriendLists(ctx context.Context, lists *FriendLists) error {
	raw, err := json.Marshal(lists)
	if err != nil {
		return err
	}
	return s.upsertDoc(ctx, &friendDoc{Key: lists.Email, Doc: string(raw)})
}
