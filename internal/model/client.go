package model

// Client is a closed variant: only Particulier and Entreprise implement it.
// Tax policy and PDF layout are selected by type switch on the variant.
type Client interface {
	Type() ClientType
	isClient()
}

// Particulier is an individual customer.
type Particulier struct {
	Nom       string
	Adresse   string
	Telephone string
	Email     string
}

func (Particulier) Type() ClientType { return ClientParticulier }
func (Particulier) isClient()        {}

// Entreprise is a business customer; RC and tax id appear on every document.
type Entreprise struct {
	Particulier
	RaisonSociale    string
	RegistreCommerce string
	NumeroFiscal     string
}

func (Entreprise) Type() ClientType { return ClientEntreprise }
func (Entreprise) isClient()        {}
