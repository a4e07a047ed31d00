package tronwallet

// Request/response shapes of the Tron full-node HTTP API, limited to the
// endpoints the bridge uses.

type nowBlockRes struct {
	BlockHeader struct {
		RawData struct {
			Number    uint64 `json:"number"`
			Timestamp int64  `json:"timestamp"`
		} `json:"raw_data"`
	} `json:"block_header"`
	Error interface{} `json:"error"`
}

type accountReq struct {
	Address string `json:"address"`
	Visible bool   `json:"visible"`
}

type accountRes struct {
	Address string      `json:"address"`
	Balance int64       `json:"balance"`
	Type    string      `json:"type"`
	Error   interface{} `json:"error"`
}

type contractReq struct {
	Value   string `json:"value"`
	Visible bool   `json:"visible"`
}

type contractRes struct {
	Name string `json:"name"`
	ABI  struct {
		Entrys []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"entrys"`
	} `json:"abi"`
	ContractAddress string      `json:"contract_address"`
	Error           interface{} `json:"error"`
}

type triggerConstantReq struct {
	OwnerAddress     string `json:"owner_address"`
	ContractAddress  string `json:"contract_address"`
	FunctionSelector string `json:"function_selector"`
	Parameter        string `json:"parameter"`
	Visible          bool   `json:"visible"`
}

type triggerConstantRes struct {
	Result struct {
		Result  bool   `json:"result"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"result"`
	ConstantResult []string    `json:"constant_result"`
	Error          interface{} `json:"error"`
}

type triggerSmartReq struct {
	OwnerAddress     string `json:"owner_address"`
	ContractAddress  string `json:"contract_address"`
	FunctionSelector string `json:"function_selector"`
	Parameter        string `json:"parameter"`
	FeeLimit         int64  `json:"fee_limit"`
	CallValue        int64  `json:"call_value"`
	Visible          bool   `json:"visible"`
}

type triggerSmartRes struct {
	Result struct {
		Result  bool   `json:"result"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"result"`
	Transaction map[string]interface{} `json:"transaction"`
	Error       interface{}            `json:"error"`
}

// sendTransactionRes is the broadcast outcome. The node reports failures
// either as Code+Message or as a bare Error that may be a string or an object.
type sendTransactionRes struct {
	TxID    string      `json:"txid"`
	Result  bool        `json:"result"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Error   interface{} `json:"error"`
}
