package provider

// Resource kinds understood by the providers in this module.
const (
	KindResourceGroup        = "azure:Resources.ResourceGroup"
	KindVirtualNetwork       = "azure:Network.VirtualNetwork"
	KindNetworkSecurityGroup = "azure:Network.NetworkSecurityGroup"
	KindKeyVault             = "azure:KeyVault.Vault"
	KindManagedIdentity      = "azure:ManagedIdentity.UserAssignedIdentity"
	KindStorageAccount       = "azure:Storage.StorageAccount"
	KindBlobContainer        = "azure:Storage.BlobContainer"
	KindLogAnalytics         = "azure:OperationalInsights.Workspace"
	KindAppInsights          = "azure:Insights.Component"
)
