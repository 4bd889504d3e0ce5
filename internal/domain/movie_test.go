package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePrice(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		wantErr bool
	}{
		{name: "cents", price: "12.99"},
		{name: "whole", price: "5"},
		{name: "trailing zeros", price: "7.5000"},
		{name: "smallest", price: "0.01"},
		{name: "largest", price: "99999999.99"},
		{name: "zero", price: "0", wantErr: true},
		{name: "negative", price: "-1.50", wantErr: true},
		{name: "rounds to zero", price: "0.004", wantErr: true},
		{name: "sub-cent", price: "9.995", wantErr: true},
		{name: "column max", price: "100000000", wantErr: true},
		{name: "overflow", price: "123456789.00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrice(decimal.RequireFromString(tt.price))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPrice)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewMovieRejectsSubCentPrice(t *testing.T) {
	_, err := NewMovie("id", CreateMovieRequest{
		Title:       "Rounded",
		Price:       decimal.RequireFromString("0.004"),
		Description: "x",
	}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidPrice)

	m, err := NewMovie("id", CreateMovieRequest{
		Title:       "Exact",
		Price:       decimal.RequireFromString("9.99"),
		Description: "x",
	}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "9.99", m.Price.StringFixed(2))
}
