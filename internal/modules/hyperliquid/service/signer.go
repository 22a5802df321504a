package service

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/binary"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrMissingPrivateKey ключ для живой торговли не задан.
var ErrMissingPrivateKey = errors.New("HYPERLIQUID_PRIVATE_KEY environment variable is required for live trading")

const l1ChainID = 1337

var (
	domainTypeHash = crypto.Keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	agentTypeHash  = crypto.Keccak256([]byte("Agent(string source,bytes32 connectionId)"))
	domainSep      = crypto.Keccak256(
		domainTypeHash,
		crypto.Keccak256([]byte("Exchange")),
		crypto.Keccak256([]byte("1")),
		common.LeftPadBytes(big.NewInt(l1ChainID).Bytes(), 32),
		common.LeftPadBytes(common.Address{}.Bytes(), 32),
	)
)

// Signer подписывает L1-действия ключом кошелька.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
	mainnet bool
}

func parseKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return nil, ErrMissingPrivateKey
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}
	return key, nil
}

// NewSigner принимает ключ с префиксом 0x или без.
func NewSigner(hexKey string, mainnet bool) (*Signer, error) {
	key, err := parseKey(hexKey)
	if err != nil {
		return nil, err
	}
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		mainnet: mainnet,
	}, nil
}

// DeriveAddress адрес аккаунта по приватному ключу.
func DeriveAddress(hexKey string) (string, error) {
	key, err := parseKey(hexKey)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

func (s *Signer) Address() string { return s.address.Hex() }

func newActionEncoder(w io.Writer) *msgpack.Encoder {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc
}

// ActionHash connectionId фантомного агента: keccak(msgpack(action) || nonce || 0x00).
func ActionHash(action any, nonce int64) ([]byte, error) {
	var buf bytes.Buffer
	if err := newActionEncoder(&buf).Encode(action); err != nil {
		return nil, errors.Wrap(err, "msgpack action")
	}

	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(nonce))
	buf.Write(n[:])
	buf.WriteByte(0x00) // без vault-адреса

	return crypto.Keccak256(buf.Bytes()), nil
}

func agentDigest(connectionID []byte, mainnet bool) []byte {
	source := "b"
	if mainnet {
		source = "a"
	}
	structHash := crypto.Keccak256(agentTypeHash, crypto.Keccak256([]byte(source)), connectionID)
	return crypto.Keccak256([]byte{0x19, 0x01}, domainSep, structHash)
}

func (s *Signer) SignL1Action(action any, nonce int64) (signatureWire, error) {
	connectionID, err := ActionHash(action, nonce)
	if err != nil {
		return signatureWire{}, err
	}

	sig, err := crypto.Sign(agentDigest(connectionID, s.mainnet), s.key)
	if err != nil {
		return signatureWire{}, errors.Wrap(err, "sign action")
	}

	return signatureWire{
		R: hexutil.Encode(sig[:32]),
		S: hexutil.Encode(sig[32:64]),
		V: int(sig[64]) + 27,
	}, nil
}
