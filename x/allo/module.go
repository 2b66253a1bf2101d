package allo

import (
	"encoding/json"

	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"

	"github.com/openalpha/grantchain/x/allo/keeper"
	"github.com/openalpha/grantchain/x/allo/types"
)

const (
	ModuleName = types.ModuleName
)

var (
	_ module.AppModuleBasic = AppModuleBasic{}
	_ appmodule.AppModule   = AppModule{}
)

// AppModuleBasic defines the basic application module for allo
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&types.MsgAddCloneableStrategy{}, "allo/MsgAddCloneableStrategy", nil)
	cdc.RegisterConcrete(&types.MsgRemoveCloneableStrategy{}, "allo/MsgRemoveCloneableStrategy", nil)
	cdc.RegisterConcrete(&types.MsgCreatePool{}, "allo/MsgCreatePool", nil)
	cdc.RegisterConcrete(&types.MsgFundPool{}, "allo/MsgFundPool", nil)
	cdc.RegisterConcrete(&types.MsgUpdatePoolMetadata{}, "allo/MsgUpdatePoolMetadata", nil)
	cdc.RegisterConcrete(&types.MsgAddPoolManager{}, "allo/MsgAddPoolManager", nil)
	cdc.RegisterConcrete(&types.MsgRemovePoolManager{}, "allo/MsgRemovePoolManager", nil)
	cdc.RegisterConcrete(&types.MsgRegisterRecipient{}, "allo/MsgRegisterRecipient", nil)
	cdc.RegisterConcrete(&types.MsgReviewRecipients{}, "allo/MsgReviewRecipients", nil)
	cdc.RegisterConcrete(&types.MsgSubmitMilestones{}, "allo/MsgSubmitMilestones", nil)
	cdc.RegisterConcrete(&types.MsgReviewMilestone{}, "allo/MsgReviewMilestone", nil)
	cdc.RegisterConcrete(&types.MsgDistribute{}, "allo/MsgDistribute", nil)
	cdc.RegisterConcrete(&types.MsgCancelRecipients{}, "allo/MsgCancelRecipients", nil)
}

// RegisterInterfaces registers the module's interface types
func (AppModuleBasic) RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&types.MsgAddCloneableStrategy{},
		&types.MsgRemoveCloneableStrategy{},
		&types.MsgCreatePool{},
		&types.MsgFundPool{},
		&types.MsgUpdatePoolMetadata{},
		&types.MsgAddPoolManager{},
		&types.MsgRemovePoolManager{},
		&types.MsgRegisterRecipient{},
		&types.MsgReviewRecipients{},
		&types.MsgSubmitMilestones{},
		&types.MsgReviewMilestone{},
		&types.MsgDistribute{},
		&types.MsgCancelRecipients{},
	)
}

// DefaultGenesis returns default genesis state as raw bytes
func (AppModuleBasic) DefaultGenesis(cdc codec.JSONCodec) json.RawMessage {
	return nil
}

// ValidateGenesis performs genesis state validation
func (AppModuleBasic) ValidateGenesis(cdc codec.JSONCodec, config client.TxEncodingConfig, bz json.RawMessage) error {
	return nil
}

// RegisterGRPCGatewayRoutes registers the gRPC Gateway routes for the module
func (AppModuleBasic) RegisterGRPCGatewayRoutes(clientCtx client.Context, mux *runtime.ServeMux) {
}

// AppModule implements an application module for the allo module
type AppModule struct {
	AppModuleBasic
	keeper *keeper.Keeper
}

// NewAppModule creates a new AppModule object
func NewAppModule(k *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: AppModuleBasic{},
		keeper:         k,
	}
}

// Name returns the module's name
func (am AppModule) Name() string {
	return ModuleName
}

// RegisterServices registers module services
func (am AppModule) RegisterServices(cfg module.Configurator) {
	_ = keeper.NewMsgServerImpl(am.keeper)
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}
