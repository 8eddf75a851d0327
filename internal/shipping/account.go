package shipping

// Account carries the carrier credentials for one call. It is passed
// explicitly to every operation and never stored by an adapter.
type Account struct {
	Number   string `toml:"account" json:"-"`
	Meter    string `toml:"meter" json:"-"`
	Password string `toml:"password" json:"-"`
	Key      string `toml:"key" json:"-"`
	URL      string `toml:"url" json:"-"`
}

// Fields returns the credential names that carry a value.
func (a Account) Fields() FieldSet {
	fs := FieldSet{}
	fs.put(FieldAccount, a.Number)
	fs.put(FieldMeter, a.Meter)
	fs.put(FieldPassword, a.Password)
	fs.put(FieldKey, a.Key)
	fs.put(FieldURL, a.URL)
	return fs
}

// WithMeter returns a copy of a using meter, typically the number issued by
// a subscription request.
func (a Account) WithMeter(meter string) Account {
	a.Meter = meter
	return a
}
