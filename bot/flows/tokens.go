package flows

// Callback tokens. Prefixed tokens are matched by prefix (longest first: the
// demo prefixes shadow their generic counterparts and must be registered
// before them); the rest are exact-match keys.
const (
	TokenSelectProviderPrefix     = "select_provider_"
	TokenSkipAPIKey               = "skip_api_key"
	TokenSkipDescription          = "skip_description"
	TokenConfirmCreateModel       = "confirm_create_model"
	TokenCancelCreateModel        = "cancel_create_model"

	TokenSelectModelDemoPrefix    = "select_model_demo_"
	TokenSelectModelPrefix        = "select_model_"
	TokenSelectExchangeDemoPrefix = "select_exchange_demo_"
	TokenSelectExchangePrefix     = "select_exchange_"
	TokenSetBalancePrefix         = "set_balance_"
	TokenCustomBalance            = "custom_balance"
	TokenConfirmCreateTrader      = "confirm_create_trader"
	TokenCancelCreateTrader       = "cancel_create_trader"

	TokenCreateTrader    = "create_trader"
	TokenCreateAIModel   = "create_ai_model"
	TokenCreateExchange  = "create_exchange"
	TokenRefreshStatus   = "refresh_status"
	TokenListTraders     = "list_traders"
	TokenListDemoTraders = "list_demo_traders"
	TokenHelp            = "help"
	TokenBackToHome      = "back_to_home"
)
