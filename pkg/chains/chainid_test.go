package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChainID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected uint64
		wantErr  bool
	}{
		{name: "hex", input: "0x1", expected: 1},
		{name: "hex base", input: "0x2105", expected: 8453},
		{name: "hex upper prefix", input: "0X89", expected: 137},
		{name: "hex leading zero", input: "0x01", expected: 1},
		{name: "decimal", input: "137", expected: 137},
		{name: "decimal with spaces", input: " 10 ", expected: 10},
		{name: "empty", input: "", wantErr: true},
		{name: "bare prefix", input: "0x", wantErr: true},
		{name: "garbage", input: "mainnet", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseChainID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestFormatChainID(t *testing.T) {
	assert.Equal(t, "0x1", FormatChainID(1))
	assert.Equal(t, "0x89", FormatChainID(137))
	assert.Equal(t, "0x2105", FormatChainID(8453))
}

func TestParseAccount(t *testing.T) {
	account, err := ParseAccount("eip155:137:0xab16a96D359eC26a11e2C2b3d8f8B8942d5Bfcdb")
	require.NoError(t, err)
	assert.Equal(t, "eip155", account.Namespace)
	assert.Equal(t, uint64(137), account.ChainID)
	assert.Equal(t, "0xab16a96D359eC26a11e2C2b3d8f8B8942d5Bfcdb", account.Address)
	assert.Equal(t, "eip155:137:0xab16a96D359eC26a11e2C2b3d8f8B8942d5Bfcdb", account.String())

	invalid := []string{
		"",
		"eip155:1",
		"eip155:one:0xabc",
		":1:0xabc",
		"eip155:1:",
	}
	for _, raw := range invalid {
		_, err := ParseAccount(raw)
		assert.Error(t, err, "expected error for %q", raw)
	}
}

func TestHasAccountOnChain(t *testing.T) {
	accounts := []string{
		"eip155:1:0xab16a96D359eC26a11e2C2b3d8f8B8942d5Bfcdb",
		"eip155:10:0xab16a96D359eC26a11e2C2b3d8f8B8942d5Bfcdb",
		"not-an-account",
	}

	assert.True(t, HasAccountOnChain(accounts, "eip155", 1))
	assert.True(t, HasAccountOnChain(accounts, "eip155", 10))
	assert.False(t, HasAccountOnChain(accounts, "eip155", 137))
	assert.False(t, HasAccountOnChain(accounts, "solana", 1))
	// eip155:1 must not match eip155:10
	assert.False(t, HasAccountOnChain([]string{"eip155:10:0xabc"}, "eip155", 1))
	assert.False(t, HasAccountOnChain(nil, "eip155", 1))
}
