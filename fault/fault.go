// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type AuthorisationError GenericError
type CustodyError GenericError
type ExistsError GenericError
type FundError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError
type StateError GenericError
type ValueError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised           = ExistsError("already initialised")
	AssetAlreadyExists           = ExistsError("asset already exists")
	AssetNotFound                = NotFoundError("asset not found")
	BalanceOverflow              = FundError("balance overflow")
	CannotDecodeAccount          = RecordError("cannot decode account")
	CertificateFileAlreadyExists = ExistsError("certificate file already exists")
	ChecksumMismatch             = ProcessError("checksum mismatch")
	ContractAlreadyRegistered    = ExistsError("asset contract already registered")
	ContractNameTooLong          = LengthError("asset contract name too long")
	CryptoFailed                 = ProcessError("crypto failed")
	CustodyTransferRejected      = CustodyError("custody provider rejected transfer")
	DatabaseIsNotSet             = ProcessError("database is not set")
	IdentityNameAlreadyExists    = ExistsError("identity name already exists")
	IdentityNameNotFound         = NotFoundError("identity name not found")
	InsufficientFunds            = FundError("insufficient funds")
	InvalidAccount               = InvalidError("invalid account")
	InvalidChain                 = InvalidError("invalid chain")
	InvalidCount                 = InvalidError("invalid count")
	InvalidIpAddress             = InvalidError("invalid IP address")
	InvalidItem                  = InvalidError("invalid item")
	InvalidKeyLength             = LengthError("invalid key length")
	InvalidKeyType               = InvalidError("invalid key type")
	InvalidLoggerChannel         = InvalidError("invalid logger channel")
	InvalidNonce                 = InvalidError("invalid nonce")
	InvalidPortNumber            = InvalidError("invalid port number")
	InvalidPrivateKeyFile        = InvalidError("invalid private key file")
	InvalidPublicKeyFile         = InvalidError("invalid public key file")
	InvalidSignature             = InvalidError("invalid signature")
	InvalidStructPointer         = InvalidError("invalid struct pointer")
	KeyFileAlreadyExists         = ExistsError("key file already exists")
	ListingNotActive             = StateError("listing is not active")
	MissingParameters            = InvalidError("missing parameters")
	MustOwnAssetToList           = AuthorisationError("you must own this asset to list it")
	MustOwnListingToCancel       = AuthorisationError("you must own this listing to cancel")
	NotAssetOwnerOrOperator      = AuthorisationError("caller is not asset owner or operator")
	NotAuthorisedMinter          = AuthorisationError("caller is not the minter")
	NotAvailableOnLiveChain      = InvalidError("not available on live chain")
	NotInitialised               = NotFoundError("not initialised")
	NotPrivateKey                = RecordError("not private key")
	NotPublicKey                 = RecordError("not public key")
	PaymentMismatch              = ValueError("payment must exactly equal the listing price")
	RateLimiting                 = InvalidError("rate limiting")
	ReceiverRejectedFunds        = FundError("receiver rejected funds")
	TransactionAlreadyInUse      = ProcessError("transaction already in use")
	TransactionNotInUse          = ProcessError("transaction not in use")
	TransferFromNotOwner         = CustodyError("transfer from is not the asset owner")
	TransferNotAuthorised        = CustodyError("transfer is not authorised")
	UnknownAssetContract         = InvalidError("unknown asset contract")
	UnknownListing               = StateError("listing does not exist")
	WrongNetworkForPublicKey     = InvalidError("wrong network for public key")
	WrongPassword                = InvalidError("wrong password")
	ZeroAmount                   = FundError("amount must be greater than zero")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AuthorisationError) Error() string { return string(e) }
func (e CustodyError) Error() string       { return string(e) }
func (e ExistsError) Error() string        { return string(e) }
func (e FundError) Error() string          { return string(e) }
func (e InvalidError) Error() string       { return string(e) }
func (e LengthError) Error() string        { return string(e) }
func (e NotFoundError) Error() string      { return string(e) }
func (e ProcessError) Error() string       { return string(e) }
func (e RecordError) Error() string        { return string(e) }
func (e StateError) Error() string         { return string(e) }
func (e ValueError) Error() string         { return string(e) }

// determine the class of an error
func IsErrAuthorisation(e error) bool { _, ok := e.(AuthorisationError); return ok }
func IsErrCustody(e error) bool       { _, ok := e.(CustodyError); return ok }
func IsErrExists(e error) bool        { _, ok := e.(ExistsError); return ok }
func IsErrFund(e error) bool          { _, ok := e.(FundError); return ok }
func IsErrInvalid(e error) bool       { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool        { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool      { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool       { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool        { _, ok := e.(RecordError); return ok }
func IsErrState(e error) bool         { _, ok := e.(StateError); return ok }
func IsErrValue(e error) bool         { _, ok := e.(ValueError); return ok }
