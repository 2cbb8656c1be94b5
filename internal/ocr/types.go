// types.go

package ocr

// Extraction mirrors the JSON emitted by the extraction gateway. Every
// numeric field arrives as a string: the gateway answers with either a
// number, free text, or the sentinel "Non spécifié" when the document
// does not carry the field.
type Extraction struct {
	Document    Document  `json:"document"`
	Fournisseur Partie    `json:"fournisseur"`
	Acheteur    Partie    `json:"acheteur"`
	Facture     Facture   `json:"facture"`
	Lignes      []Ligne   `json:"lignes"`
	Totaux      Totaux    `json:"totaux"`
	Paiement    Paiement  `json:"paiement"`
	Notes       string    `json:"notes"`
	TexteBrut   string    `json:"texte_brut_complet"`
}

type Document struct {
	Type   string `json:"type"`
	Langue string `json:"langue"`
	Source string `json:"source"`
}

type Partie struct {
	Nom                  string `json:"nom"`
	Adresse              string `json:"adresse"`
	IdentifiantsFiscaux  string `json:"identifiants_fiscaux"`
	Email                string `json:"email"`
	Telephone            string `json:"telephone"`
	SiteWeb              string `json:"site_web,omitempty"`
	IBAN                 string `json:"iban,omitempty"`
	BICSwift             string `json:"bic_swift,omitempty"`
}

type Facture struct {
	Numero             string `json:"numero"`
	DateEmission       string `json:"date_emission"`
	DateEcheance       string `json:"date_echeance"`
	CommandeRef        string `json:"commande_ref"`
	ConditionsPaiement string `json:"conditions_paiement"`
	Devise             string `json:"devise"`
}

type Ligne struct {
	Description    string `json:"description"`
	CodeArticle    string `json:"code_article"`
	Quantite       string `json:"quantite"`
	Unite          string `json:"unite"`
	PrixUnitaireHT string `json:"prix_unitaire_ht"`
	TauxTVA        string `json:"taux_tva"`
	MontantHT      string `json:"montant_ht"`
	MontantTTC     string `json:"montant_ttc"`
}

type Totaux struct {
	SousTotalHT string `json:"sous_total_ht"`
	TotalTVA    string `json:"total_tva"`
	Remise      string `json:"remise"`
	Frais       string `json:"frais"`
	TotalTTC    string `json:"total_ttc"`
	DejaRegle   string `json:"deja_regle"`
	ResteAPayer string `json:"reste_a_payer"`
}

type Paiement struct {
	MoyensAcceptes    string `json:"moyens_acceptes"`
	Instructions      string `json:"instructions"`
	ReferencePaiement string `json:"reference_paiement"`
}
