package tx

import "strings"

// Result is an engine result code. Codes are grouped by numeric range:
// tes (0) success, tec (100..199) applied-but-failed claiming the fee,
// ter (-99..-1) retry, ter codes may succeed in a later ledger,
// tef (-199..-100) permanent failure, tem (-299..-200) malformed.
type Result int

const (
	TesSUCCESS Result = 0

	// tec: the transaction is recorded and the fee is claimed, but the
	// requested effects are discarded.
	TecINVALID_AMOUNT         Result = 120
	TecMATH_OVERFLOW          Result = 121
	TecINSUFFICIENT_LIQUIDITY Result = 122
	TecSLIPPAGE_EXCEEDED      Result = 123
	TecUNFUNDED               Result = 129
	TecNO_ENTRY               Result = 140
	TecINTERNAL               Result = 144
	TecDUPLICATE              Result = 149

	// ter: not applied, retry in a later ledger may succeed.
	TerRETRY      Result = -99
	TerINSUF_FEE  Result = -97
	TerNO_ACCOUNT Result = -96
	TerPRE_SEQ    Result = -92

	// tef: not applied, will never succeed against this ledger state.
	TefPAST_SEQ Result = -190
	TefINTERNAL Result = -192

	// tem: the transaction itself is malformed.
	TemMALFORMED       Result = -299
	TemINVALID_AMOUNT  Result = -298
	TemINVALID_INPUT   Result = -297
	TemBAD_FEE         Result = -295
	TemBAD_SEQUENCE    Result = -283
	TemBAD_SRC_ACCOUNT Result = -281
	TemINVALID         Result = -277
	TemINVALID_FLAG    Result = -276
)

var resultNames = map[Result]string{
	TesSUCCESS:                "tesSUCCESS",
	TecINVALID_AMOUNT:         "tecINVALID_AMOUNT",
	TecMATH_OVERFLOW:          "tecMATH_OVERFLOW",
	TecINSUFFICIENT_LIQUIDITY: "tecINSUFFICIENT_LIQUIDITY",
	TecSLIPPAGE_EXCEEDED:      "tecSLIPPAGE_EXCEEDED",
	TecUNFUNDED:               "tecUNFUNDED",
	TecNO_ENTRY:               "tecNO_ENTRY",
	TecINTERNAL:               "tecINTERNAL",
	TecDUPLICATE:              "tecDUPLICATE",
	TerRETRY:                  "terRETRY",
	TerINSUF_FEE:              "terINSUF_FEE",
	TerNO_ACCOUNT:             "terNO_ACCOUNT",
	TerPRE_SEQ:                "terPRE_SEQ",
	TefPAST_SEQ:               "tefPAST_SEQ",
	TefINTERNAL:               "tefINTERNAL",
	TemMALFORMED:              "temMALFORMED",
	TemINVALID_AMOUNT:         "temINVALID_AMOUNT",
	TemINVALID_INPUT:          "temINVALID_INPUT",
	TemBAD_FEE:                "temBAD_FEE",
	TemBAD_SEQUENCE:           "temBAD_SEQUENCE",
	TemBAD_SRC_ACCOUNT:        "temBAD_SRC_ACCOUNT",
	TemINVALID:                "temINVALID",
	TemINVALID_FLAG:           "temINVALID_FLAG",
}

var resultMessages = map[Result]string{
	TesSUCCESS:                "The transaction was applied.",
	TecINVALID_AMOUNT:         "The computed amount is zero or invalid.",
	TecMATH_OVERFLOW:          "Arithmetic overflow during execution.",
	TecINSUFFICIENT_LIQUIDITY: "The pool reserves cannot cover the request.",
	TecSLIPPAGE_EXCEEDED:      "The output is below the stated minimum.",
	TecUNFUNDED:               "The source account cannot cover the transfer.",
	TecNO_ENTRY:               "A required ledger entry is missing.",
	TecINTERNAL:               "An internal error occurred during execution.",
	TecDUPLICATE:              "The entry to be created already exists.",
	TerRETRY:                  "Retry the transaction.",
	TerINSUF_FEE:              "The account cannot pay the fee; retry later.",
	TerNO_ACCOUNT:             "The source account does not exist.",
	TerPRE_SEQ:                "The sequence number is ahead of the account.",
	TefPAST_SEQ:               "The sequence number has already been used.",
	TefINTERNAL:               "An internal error occurred during validation.",
	TemMALFORMED:              "The transaction is malformed.",
	TemINVALID_AMOUNT:         "An amount field is invalid.",
	TemINVALID_INPUT:          "An input field is invalid.",
	TemBAD_FEE:                "The fee is invalid.",
	TemBAD_SEQUENCE:           "The sequence field is invalid.",
	TemBAD_SRC_ACCOUNT:        "The source account field is invalid.",
	TemINVALID:                "The transaction is invalid.",
	TemINVALID_FLAG:           "The flags field contains unknown bits.",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return "unknownResult"
}

// Message returns the human-readable description of the result.
func (r Result) Message() string {
	if msg, ok := resultMessages[r]; ok {
		return msg
	}
	return "Unknown result code."
}

func (r Result) IsSuccess() bool { return r == TesSUCCESS }

func (r Result) IsTec() bool { return r >= 100 && r < 200 }

func (r Result) IsTer() bool { return r >= -99 && r < 0 }

func (r Result) IsTef() bool { return r >= -199 && r < -100 }

func (r Result) IsTem() bool { return r >= -299 && r < -200 }

// IsApplied reports whether the transaction made it into the ledger,
// either successfully or as a fee-claiming failure.
func (r Result) IsApplied() bool { return r.IsSuccess() || r.IsTec() }

// parseValidationError maps a Validate() error to a tem code. Validators
// prefix their errors with the intended result name.
func parseValidationError(err error) Result {
	if err == nil {
		return TesSUCCESS
	}
	token, _, found := strings.Cut(err.Error(), ":")
	if !found {
		return TemINVALID
	}
	for code, name := range resultNames {
		if code.IsTem() && name == token {
			return code
		}
	}
	return TemINVALID
}
