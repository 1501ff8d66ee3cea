package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("config key not found: %s", key)
		}
		return "", err
	}
	return value, nil
}

// GetConfigInt 获取整数配置项
func (s *Store) GetConfigInt(key string) (int, error) {
	value, err := s.GetConfig(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// SetConfigInt 设置整数配置项
func (s *Store) SetConfigInt(key string, value int) error {
	return s.SetConfig(key, strconv.Itoa(value))
}

// GetLastPeriod 最近一次成功分析的年月
func (s *Store) GetLastPeriod() (year, month int, err error) {
	year, err = s.GetConfigInt("last_year")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get last_year: %w", err)
	}

	month, err = s.GetConfigInt("last_month")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get last_month: %w", err)
	}

	return year, month, nil
}

// SetLastPeriod 记录最近一次成功分析的年月
func (s *Store) SetLastPeriod(year, month int) error {
	if err := s.SetConfigInt("last_year", year); err != nil {
		return err
	}
	if err := s.SetConfigInt("last_month", month); err != nil {
		return err
	}
	return nil
}
