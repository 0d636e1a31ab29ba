// Package lsm holds helpers shared by the modules that hold liquid staking
// receipts: receipt denom parsing and continuation addressing.
package lsm

import (
	"strconv"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ReceiptSeparator separates the delegation target from the record id in a receipt denom.
const ReceiptSeparator = "/"

// knownValidatorPrefixes are accepted in addition to the prefix configured for the running chain.
var knownValidatorPrefixes = []string{"cosmosvaloper", "osmosisvaloper"}

// ReceiptInfo is a parsed receipt denom.
type ReceiptInfo struct {
	Validator string
	RecordID  uint64
}

// Denom returns the receipt denom.
func (r ReceiptInfo) Denom() string {
	return ReceiptDenom(r.Validator, r.RecordID)
}

// ReceiptDenom builds the denom of a receipt token.
func ReceiptDenom(validator string, recordID uint64) string {
	return validator + ReceiptSeparator + strconv.FormatUint(recordID, 10)
}

// ValidatorPrefixes returns the bech32 validator prefixes a receipt may carry.
func ValidatorPrefixes() []string {
	prefixes := append([]string{sdk.GetConfig().GetBech32ValidatorAddrPrefix()}, knownValidatorPrefixes...)
	return lo.Uniq(prefixes)
}

// ParseReceiptDenom parses a "{validator}/{recordId}" receipt denom.
func ParseReceiptDenom(denom string) (ReceiptInfo, error) {
	parts := strings.Split(denom, ReceiptSeparator)
	if len(parts) != 2 {
		return ReceiptInfo{}, errors.Errorf("invalid receipt denom format, expected 'validator/record_id', got '%s'", denom)
	}

	validator, recordID := parts[0], parts[1]
	if !hasValidatorPrefix(validator) {
		return ReceiptInfo{}, errors.Errorf("invalid validator address format, expected valoper address, got '%s'", validator)
	}

	id, err := strconv.ParseUint(recordID, 10, 64)
	if err != nil {
		return ReceiptInfo{}, errors.Errorf("invalid record_id, expected numeric value, got '%s'", recordID)
	}

	return ReceiptInfo{
		Validator: validator,
		RecordID:  id,
	}, nil
}

// Receipts returns the balance entries that are receipts of the given validator.
func Receipts(balances sdk.Coins, validator string) sdk.Coins {
	var receipts sdk.Coins
	for _, coin := range balances {
		if isReceiptOf(coin.Denom, validator) {
			receipts = append(receipts, coin)
		}
	}
	return receipts
}

// FindNewReceipt returns the receipt of the validator that appeared in the balances, or grew, since
// the before snapshot was taken. Only the grown amount is returned.
func FindNewReceipt(balances sdk.Coins, validator string, before sdk.Coins) (sdk.Coin, bool) {
	for _, coin := range Receipts(balances, validator) {
		grown := coin.Amount.Sub(before.AmountOfNoDenomValidation(coin.Denom))
		if grown.IsPositive() {
			return sdk.NewCoin(coin.Denom, grown), true
		}
	}
	return sdk.Coin{}, false
}

func isReceiptOf(denom, validator string) bool {
	if !strings.HasPrefix(denom, validator+ReceiptSeparator) {
		return false
	}
	info, err := ParseReceiptDenom(denom)
	return err == nil && info.Validator == validator
}

func hasValidatorPrefix(validator string) bool {
	return lo.SomeBy(ValidatorPrefixes(), func(prefix string) bool {
		// "1" is the bech32 separator.
		return strings.HasPrefix(validator, prefix+"1")
	})
}
