package iso8583

// descriptor is shorthand for the rows of the default table.
func descriptor(index int, name string, class ContentClass, maxLen int, lt LengthType) FieldDescriptor {
	return FieldDescriptor{Index: index, Name: name, Class: class, MaxLength: maxLen, LengthType: lt}
}

// mtiDescriptor describes the 4-digit message type indicator.
var mtiDescriptor = FieldDescriptor{
	Name:       "Message type indicator",
	Class:      ClassNumeric,
	MaxLength:  4,
	LengthType: LengthFixed,
}

// bitmapDescriptor renders the bitmap as 16 or 32 upper-case hex characters.
var bitmapDescriptor = FieldDescriptor{
	Index:      1,
	Name:       "Bitmap",
	Class:      ClassBinary,
	MaxLength:  BitmapSize,
	LengthType: LengthFixed,
	Encoding:   EncodingASCII,
}

// defaultFields is the ISO 8583:1987 data element table, fields 2 to 128.
// Field 55 carries EMV chip data as raw TLV bytes.
var defaultFields = []FieldDescriptor{
	descriptor(2, "Primary account number (PAN)", ClassNumeric, 19, LengthLLVAR),
	descriptor(3, "Processing code", ClassNumeric, 6, LengthFixed),
	descriptor(4, "Amount transaction", ClassNumeric, 12, LengthFixed),
	descriptor(5, "Amount reconciliation", ClassNumeric, 12, LengthFixed),
	descriptor(6, "Amount cardholder billing", ClassNumeric, 12, LengthFixed),
	descriptor(7, "Date and time transmission", ClassNumeric, 10, LengthFixed),
	descriptor(8, "Amount cardholder billing fee", ClassNumeric, 8, LengthFixed),
	descriptor(9, "Conversion rate reconciliation", ClassNumeric, 8, LengthFixed),
	descriptor(10, "Conversion rate cardholder billing", ClassNumeric, 8, LengthFixed),
	descriptor(11, "Systems trace audit number", ClassNumeric, 6, LengthFixed),
	descriptor(12, "Date and time local transaction", ClassNumeric, 6, LengthFixed),
	descriptor(13, "Date effective", ClassNumeric, 4, LengthFixed),
	descriptor(14, "Date expiration", ClassNumeric, 4, LengthFixed),
	descriptor(15, "Date settlement", ClassNumeric, 4, LengthFixed),
	descriptor(16, "Date conversion", ClassNumeric, 4, LengthFixed),
	descriptor(17, "Date capture", ClassNumeric, 4, LengthFixed),
	descriptor(18, "Message error indicator", ClassNumeric, 4, LengthFixed),
	descriptor(19, "Country code acquiring institution", ClassNumeric, 3, LengthFixed),
	descriptor(20, "Country code primary account number (PAN)", ClassNumeric, 3, LengthFixed),
	descriptor(21, "Transaction life cycle identification data", ClassNumeric, 3, LengthFixed),
	descriptor(22, "Point of service data code", ClassNumeric, 3, LengthFixed),
	descriptor(23, "Card sequence number", ClassNumeric, 3, LengthFixed),
	descriptor(24, "Function code", ClassNumeric, 3, LengthFixed),
	descriptor(25, "Message reason code", ClassNumeric, 2, LengthFixed),
	descriptor(26, "Merchant category code", ClassNumeric, 2, LengthFixed),
	descriptor(27, "Point of service capability", ClassNumeric, 1, LengthFixed),
	descriptor(28, "Date reconciliation", ClassAlphanumeric, 9, LengthFixed),
	descriptor(29, "Reconciliation indicator", ClassAlphanumeric, 9, LengthFixed),
	descriptor(30, "Amounts original", ClassAlphanumeric, 9, LengthFixed),
	descriptor(31, "Acquirer reference number", ClassAlphanumeric, 9, LengthFixed),
	descriptor(32, "Acquiring institution identification code", ClassNumeric, 11, LengthLLVAR),
	descriptor(33, "Forwarding institution identification code", ClassNumeric, 11, LengthLLVAR),
	descriptor(34, "Electronic commerce data", ClassNumericSpecial, 28, LengthLLVAR),
	descriptor(35, "Track 2 data", ClassTrackData, 37, LengthLLVAR),
	descriptor(36, "Track 3 data", ClassNumeric, 104, LengthLLLVAR),
	descriptor(37, "Retrieval reference number", ClassAlphanumeric, 12, LengthFixed),
	descriptor(38, "Approval code", ClassAlphanumeric, 6, LengthFixed),
	descriptor(39, "Action code", ClassAlphanumeric, 2, LengthFixed),
	descriptor(40, "Service code", ClassAlphanumeric, 3, LengthFixed),
	descriptor(41, "Card acceptor terminal identification", ClassAlphanumericSpecial, 8, LengthFixed),
	descriptor(42, "Card acceptor identification code", ClassAlphanumericSpecial, 15, LengthFixed),
	descriptor(43, "Card acceptor name/location", ClassAlphanumericSpecial, 40, LengthFixed),
	descriptor(44, "Additional response data", ClassAlphanumeric, 25, LengthLLVAR),
	descriptor(45, "Track 1 data", ClassAlphanumeric, 76, LengthLLVAR),
	descriptor(46, "Amounts fees", ClassAlphanumeric, 999, LengthLLLVAR),
	descriptor(47, "Additional data national", ClassAlphanumeric, 999, LengthLLLVAR),
	descriptor(48, "Additional data private", ClassAlphanumeric, 999, LengthLLLVAR),
	descriptor(49, "Verification data", ClassAlphanumeric, 3, LengthFixed),
	descriptor(50, "Currency code, settlement", ClassAlphanumeric, 3, LengthFixed),
	descriptor(51, "Currency code, cardholder billing", ClassAlphanumeric, 3, LengthFixed),
	descriptor(52, "Personal identification number (PIN) data", ClassBinary, 8, LengthFixed),
	descriptor(53, "Security related control information", ClassNumeric, 16, LengthFixed),
	descriptor(54, "Amounts additional", ClassAlphanumeric, 120, LengthLLLVAR),
	{Index: 55, Name: "Integrated circuit card (ICC) system related data", Class: ClassBinary, MaxLength: 999, LengthType: LengthLLLVAR, TLV: true},
	descriptor(56, "Original data elements", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(57, "Authorisation life cycle code", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(58, "Authorising agent institution identification code", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(59, "Transport data", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(60, "Reserved for national use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(61, "Reserved for national use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(62, "Reserved for private use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(63, "Reserved for private use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(64, "Message authentication code (MAC) field", ClassBinary, 8, LengthFixed),
	descriptor(65, "Bitmap tertiary", ClassBinary, 1, LengthFixed),
	descriptor(66, "Settlement code", ClassNumeric, 1, LengthFixed),
	descriptor(67, "Extended payment data", ClassNumeric, 2, LengthFixed),
	descriptor(68, "Receiving institution country code", ClassNumeric, 3, LengthFixed),
	descriptor(69, "Settlement institution country code", ClassNumeric, 3, LengthFixed),
	descriptor(70, "Network management Information code", ClassNumeric, 3, LengthFixed),
	descriptor(71, "Message number", ClassNumeric, 4, LengthFixed),
	descriptor(72, "Data record", ClassNumeric, 4, LengthFixed),
	descriptor(73, "Date action", ClassNumeric, 6, LengthFixed),
	descriptor(74, "Credits, number", ClassNumeric, 10, LengthFixed),
	descriptor(75, "Credits, reversal number", ClassNumeric, 10, LengthFixed),
	descriptor(76, "Debits, number", ClassNumeric, 10, LengthFixed),
	descriptor(77, "Debits, reversal number", ClassNumeric, 10, LengthFixed),
	descriptor(78, "Transfer number", ClassNumeric, 10, LengthFixed),
	descriptor(79, "Transfer, reversal number", ClassNumeric, 10, LengthFixed),
	descriptor(80, "Inquiries number", ClassNumeric, 10, LengthFixed),
	descriptor(81, "Authorizations, number", ClassNumeric, 10, LengthFixed),
	descriptor(82, "Credits, processing fee amount", ClassNumeric, 12, LengthFixed),
	descriptor(83, "Credits, transaction fee amount", ClassNumeric, 12, LengthFixed),
	descriptor(84, "Debits, processing fee amount", ClassNumeric, 12, LengthFixed),
	descriptor(85, "Debits, transaction fee amount", ClassNumeric, 12, LengthFixed),
	descriptor(86, "Credits, amount", ClassNumeric, 16, LengthFixed),
	descriptor(87, "Credits, reversal amount", ClassNumeric, 16, LengthFixed),
	descriptor(88, "Debits, amount", ClassNumeric, 16, LengthFixed),
	descriptor(89, "Debits, reversal amount", ClassNumeric, 16, LengthFixed),
	descriptor(90, "Original data elements", ClassNumeric, 42, LengthFixed),
	descriptor(91, "File update code", ClassAlphanumeric, 1, LengthFixed),
	descriptor(92, "File security code", ClassAlphanumeric, 2, LengthFixed),
	descriptor(93, "Response indicator", ClassAlphanumeric, 5, LengthFixed),
	descriptor(94, "Service indicator", ClassAlphanumeric, 7, LengthFixed),
	descriptor(95, "Replacement amounts", ClassAlphanumeric, 42, LengthFixed),
	descriptor(96, "Message security code", ClassBinary, 8, LengthFixed),
	descriptor(97, "Amount, net settlement", ClassAlphanumeric, 16, LengthFixed),
	descriptor(98, "Payee", ClassAlphanumericSpecial, 25, LengthFixed),
	descriptor(99, "Settlement institution identification code", ClassNumeric, 11, LengthLLVAR),
	descriptor(100, "Receiving institution identification code", ClassNumeric, 11, LengthLLVAR),
	descriptor(101, "File name", ClassAlphanumericSpecial, 17, LengthLLVAR),
	descriptor(102, "Account identification 1", ClassAlphanumericSpecial, 28, LengthLLVAR),
	descriptor(103, "Account identification 2", ClassAlphanumericSpecial, 28, LengthLLVAR),
	descriptor(104, "Transaction description", ClassAlphanumericSpecial, 100, LengthLLLVAR),
	descriptor(105, "Reserved for ISO use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(106, "Reserved for ISO use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(107, "Reserved for ISO use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(108, "Reserved for ISO use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(109, "Reserved for ISO use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(110, "Reserved for ISO use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(111, "Reserved for private use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(112, "Reserved for private use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(113, "Reserved for private use", ClassNumeric, 11, LengthLLVAR),
	descriptor(114, "Reserved for national use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(115, "Reserved for national use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(116, "Reserved for national use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(117, "Reserved for national use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(118, "Reserved for national use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(119, "Reserved for national use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(120, "Reserved for private use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(121, "Reserved for private use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(122, "Reserved for national use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(123, "Reserved for private use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(124, "Info Text", ClassAlphanumericSpecial, 255, LengthLLLVAR),
	descriptor(125, "Network management information", ClassAlphanumericSpecial, 50, LengthLLVAR),
	descriptor(126, "Issuer trace id", ClassAlphanumericSpecial, 6, LengthLLVAR),
	descriptor(127, "Reserved for private use", ClassAlphanumericSpecial, 999, LengthLLLVAR),
	descriptor(128, "Message authentication code (MAC) field", ClassBinary, 16, LengthFixed),
}
