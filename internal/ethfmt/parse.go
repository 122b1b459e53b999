package ethfmt

import (
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	reTxHash  = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	reEthAddr = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// IsTxHash reports whether s is a 0x-prefixed 32-byte hex string. Surrounding
// whitespace is not trimmed: path parameters are matched as received.
func IsTxHash(s string) bool {
	return reTxHash.MatchString(s)
}

func IsEthAddress(s string) bool {
	return reEthAddr.MatchString(s)
}

// CallData encodes a 4-byte selector followed by 32-byte left-padded address words.
func CallData(selector []byte, addrs ...common.Address) string {
	data := make([]byte, 0, len(selector)+32*len(addrs))
	data = append(data, selector...)
	for _, a := range addrs {
		data = append(data, common.LeftPadBytes(a.Bytes(), 32)...)
	}
	return hexutil.Encode(data)
}

// IsEmptyCode reports whether an eth_getCode result denotes an externally owned account.
func IsEmptyCode(code string) bool {
	return code == "0x" || code == "0x0" || len(code) <= 2
}
