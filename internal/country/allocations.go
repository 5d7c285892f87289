package country

// allocations lists the national address blocks, largest block first. Each
// prefix is the address shifted right by the block's shift.
var allocations = []allocation{
	{
		shift: 20,
		prefixes: map[uint32]Country{
			0b0001: {Name: "Russian Federation", Code: "RU"},
			0b1010: {Name: "United States", Code: "US"},
		},
	},
	{
		shift: 18,
		prefixes: map[uint32]Country{
			0b111000: {Name: "Argentina", Code: "AR"},
			0b011111: {Name: "Australia", Code: "AU"},
			0b111001: {Name: "Brazil", Code: "BR"},
			0b110000: {Name: "Canada", Code: "CA"},
			0b011110: {Name: "China", Code: "CN"},
			0b001110: {Name: "France", Code: "FR"},
			0b001111: {Name: "Germany", Code: "DE"},
			0b100000: {Name: "India", Code: "IN"},
			0b001100: {Name: "Italy", Code: "IT"},
			0b100001: {Name: "Japan", Code: "JP"},
			0b001101: {Name: "Spain", Code: "ES"},
			0b010000: {Name: "United Kingdom", Code: "GB"},
		},
	},
	{
		shift: 15,
		prefixes: map[uint32]Country{
			0b000010100: {Name: "Algeria", Code: "DZ"},
			0b010001000: {Name: "Austria", Code: "AT"},
			0b010001001: {Name: "Belgium", Code: "BE"},
			0b010001010: {Name: "Bulgaria", Code: "BG"},
			0b010010011: {Name: "Czech Republic", Code: "CZ"},
			0b011100100: {Name: "Democratic People's Republic of Korea", Code: "KP"},
			0b010001011: {Name: "Denmark", Code: "DK"},
			0b000000010: {Name: "Egypt", Code: "EG"},
			0b010001100: {Name: "Finland", Code: "FI"},
			0b010001101: {Name: "Greece", Code: "GR"},
			0b010001110: {Name: "Hungary", Code: "HU"},
			0b100010100: {Name: "Indonesia", Code: "ID"},
			0b011100110: {Name: "Iran, Islamic Republic of", Code: "IR"},
			0b011100101: {Name: "Iraq", Code: "IQ"},
			0b011100111: {Name: "Israel", Code: "IL"},
			0b011101000: {Name: "Jordan", Code: "JO"},
			0b011101001: {Name: "Lebanon", Code: "LB"},
			0b000000011: {Name: "Libyan Arab Jamahiriya", Code: "LY"},
			0b011101010: {Name: "Malaysia", Code: "MY"},
			0b000011010: {Name: "Mexico", Code: "MX"},
			0b000000100: {Name: "Morocco", Code: "MA"},
			0b010010000: {Name: "Netherlands, Kingdom of the", Code: "NL"},
			0b110010000: {Name: "New Zealand", Code: "NZ"},
			0b010001111: {Name: "Norway", Code: "NO"},
			0b011101100: {Name: "Pakistan", Code: "PK"},
			0b011101011: {Name: "Philippines", Code: "PH"},
			0b010010001: {Name: "Poland", Code: "PL"},
			0b010010010: {Name: "Portugal", Code: "PT"},
			0b011100011: {Name: "Republic of Korea", Code: "KR"},
			0b010010100: {Name: "Romania", Code: "RO"},
			0b011100010: {Name: "Saudi Arabia", Code: "SA"},
			0b011101101: {Name: "Singapore", Code: "SG"},
			0b000000001: {Name: "South Africa", Code: "ZA"},
			0b011101110: {Name: "Sri Lanka", Code: "LK"},
			0b010010101: {Name: "Sweden", Code: "SE"},
			0b010010110: {Name: "Switzerland", Code: "CH"},
			0b011101111: {Name: "Syrian Arab Republic", Code: "SY"},
			0b100010000: {Name: "Thailand", Code: "TH"},
			0b000000101: {Name: "Tunisia", Code: "TN"},
			0b010010111: {Name: "Turkey", Code: "TR"},
			0b010100001: {Name: "Ukraine", Code: "UA"},
			0b000011011: {Name: "Venezuela", Code: "VE"},
			0b100010001: {Name: "Viet Nam", Code: "VN"},
			0b010011000: {Name: "Yugoslavia", Code: "YU"},
			0b111100000: {Name: "ICAO1", Code: "ICAO1"},
		},
	},
	{
		shift: 12,
		prefixes: map[uint32]Country{
			0b011100000000: {Name: "Afghanistan", Code: "AF"},
			0b000010010000: {Name: "Angola", Code: "AO"},
			0b000010101000: {Name: "Bahamas", Code: "BS"},
			0b100010010100: {Name: "Bahrain", Code: "BH"},
			0b011100000010: {Name: "Bangladesh", Code: "BD"},
			0b111010010100: {Name: "Bolivia", Code: "BO"},
			0b000010011100: {Name: "Burkina Faso", Code: "BF"},
			0b000000110010: {Name: "Burundi", Code: "BI"},
			0b011100001110: {Name: "Cambodia", Code: "KH"},
			0b000000110100: {Name: "Cameroon", Code: "CM"},
			0b000001101100: {Name: "Central African Republic", Code: "CF"},
			0b000010000100: {Name: "Chad", Code: "TD"},
			0b111010000000: {Name: "Chile", Code: "CL"},
			0b000010101100: {Name: "Colombia", Code: "CO"},
			0b000000110110: {Name: "Congo", Code: "CG"},
			0b000010101110: {Name: "Costa Rica", Code: "CR"},
			0b000000111000: {Name: "Côte d’Ivoire", Code: "CI"},
			0b000010110000: {Name: "Cuba", Code: "CU"},
			0b000010001100: {Name: "Democratic Republic of the Congo", Code: "CD"},
			0b000011000100: {Name: "Dominican Republic", Code: "DO"},
			0b111010000100: {Name: "Ecuador", Code: "EC"},
			0b000010110010: {Name: "El Salvador", Code: "SV"},
			0b000001000010: {Name: "Equatorial Guinea", Code: "GQ"},
			0b000001000000: {Name: "Ethiopia", Code: "ET"},
			0b110010001000: {Name: "Fiji", Code: "FJ"},
			0b000000111110: {Name: "Gabon", Code: "GA"},
			0b000010011010: {Name: "Gambia", Code: "GM"},
			0b000001000100: {Name: "Ghana", Code: "GH"},
			0b000010110100: {Name: "Guatemala", Code: "GT"},
			0b000001000110: {Name: "Guinea", Code: "GN"},
			0b000010110110: {Name: "Guyana", Code: "GY"},
			0b000010111000: {Name: "Haiti", Code: "HT"},
			0b000010111010: {Name: "Honduras", Code: "HN"},
			0b010011001100: {Name: "Iceland", Code: "IS"},
			0b010011001010: {Name: "Ireland", Code: "IE"},
			0b000010111110: {Name: "Jamaica", Code: "JM"},
			0b000001001100: {Name: "Kenya", Code: "KE"},
			0b011100000110: {Name: "Kuwait", Code: "KW"},
			0b011100001000: {Name: "Lao People’s Democratic Republic", Code: "LA"},
			0b000001010000: {Name: "Liberia", Code: "LR"},
			0b000001010100: {Name: "Madagascar", Code: "MG"},
			0b000001011000: {Name: "Malawi", Code: "MW"},
			0b000001011100: {Name: "Mali", Code: "ML"},
			0b010011010010: {Name: "Malta", Code: "MT"},
			0b000000000110: {Name: "Mozambique", Code: "MZ"},
			0b011100000100: {Name: "Myanmar", Code: "MM"},
			0b011100001010: {Name: "Nepal", Code: "NP"},
			0b000011000000: {Name: "Nicaragua", Code: "NI"},
			0b000001100010: {Name: "Niger", Code: "NE"},
			0b000001100100: {Name: "Nigeria", Code: "NG"},
			0b000011000010: {Name: "Panama", Code: "PA"},
			0b100010011000: {Name: "Papua New Guinea", Code: "PG"},
			0b111010001000: {Name: "Paraguay", Code: "PY"},
			0b111010001100: {Name: "Peru", Code: "PE"},
			0b000001101110: {Name: "Rwanda", Code: "RW"},
			0b000001110000: {Name: "Senegal", Code: "SN"},
			0b000001111000: {Name: "Somalia", Code: "SO"},
			0b000001111100: {Name: "Sudan", Code: "SD"},
			0b000011001000: {Name: "Suriname", Code: "SR"},
			0b000010001000: {Name: "Togo", Code: "TG"},
			0b000011000110: {Name: "Trinidad and Tobago", Code: "TT"},
			0b000001101000: {Name: "Uganda", Code: "UG"},
			0b100010010110: {Name: "United Arab Emirates", Code: "AE"},
			0b000010000000: {Name: "United Republic of Tanzania", Code: "TZ"},
			0b111010010000: {Name: "Uruguay", Code: "UY"},
			0b100010010000: {Name: "Yemen", Code: "YE"},
			0b000010001010: {Name: "Zambia", Code: "ZM"},
		},
	},
	{
		shift: 10,
		prefixes: map[uint32]Country{
			0b01010000000100: {Name: "Albania", Code: "AL"},
			0b00001100101000: {Name: "Antigua and Barbuda", Code: "AG"},
			0b01100000000000: {Name: "Armenia", Code: "AM"},
			0b01100000000010: {Name: "Azerbaijan", Code: "AZ"},
			0b00001010101000: {Name: "Barbados", Code: "BB"},
			0b01010001000000: {Name: "Belarus", Code: "BY"},
			0b00001010101100: {Name: "Belize", Code: "BZ"},
			0b00001001010000: {Name: "Benin", Code: "BJ"},
			0b01101000000000: {Name: "Bhutan", Code: "BT"},
			0b01010001001100: {Name: "Bosnia and Herzegovina", Code: "BA"},
			0b00000011000000: {Name: "Botswana", Code: "BW"},
			0b10001001010100: {Name: "Brunei Darussalam", Code: "BN"},
			0b00001001011000: {Name: "Cape Verde", Code: "CV"},
			0b00000011010100: {Name: "Comoros", Code: "KM"},
			0b10010000000100: {Name: "Cook Islands", Code: "CK"},
			0b01010000000111: {Name: "Croatia", Code: "HR"},
			0b01001100100000: {Name: "Cyprus", Code: "CY"},
			0b00001001100000: {Name: "Djibouti", Code: "DJ"},
			0b00100000001000: {Name: "Eritrea", Code: "ER"},
			0b01010001000100: {Name: "Estonia", Code: "EE"},
			0b01010001010000: {Name: "Georgia", Code: "GE"},
			0b00001100110000: {Name: "Grenada", Code: "GD"},
			0b00000100100000: {Name: "Guinea-Bissau", Code: "GW"},
			0b01101000001100: {Name: "Kazakhstan", Code: "KZ"},
			0b11001000111000: {Name: "Kiribati", Code: "KI"},
			0b01100000000100: {Name: "Kyrgyzstan", Code: "KG"},
			0b01010000001011: {Name: "Latvia", Code: "LV"},
			0b00000100101000: {Name: "Lesotho", Code: "LS"},
			0b01010000001111: {Name: "Lithuania", Code: "LT"},
			0b01001101000000: {Name: "Luxembourg", Code: "LU"},
			0b00000101101000: {Name: "Maldives", Code: "MV"},
			0b10010000000000: {Name: "Marshall Islands", Code: "MH"},
			0b00000101111000: {Name: "Mauritania", Code: "MR"},
			0b00000110000000: {Name: "Mauritius", Code: "MU"},
			0b01101000000100: {Name: "Micronesia, Federated States of", Code: "FM"},
			0b01001101010000: {Name: "Monaco", Code: "MC"},
			0b01101000001000: {Name: "Mongolia", Code: "MN"},
			0b00100000000100: {Name: "Namibia", Code: "NA"},
			0b11001000101000: {Name: "Nauru", Code: "NR"},
			0b01110000110000: {Name: "Oman", Code: "OM"},
			0b01101000010000: {Name: "Palau", Code: "PW"},
			0b00000110101000: {Name: "Qatar", Code: "QA"},
			0b01010000010011: {Name: "Republic of Moldova", Code: "MD"},
			0b11001000110000: {Name: "Saint Lucia", Code: "LC"},
			0b00001011110000: {Name: "Saint Vincent and the Grenadines", Code: "VC"},
			0b10010000001000: {Name: "Samoa", Code: "WS"},
			0b01010000000000: {Name: "San Marino", Code: "SM"},
			0b00001001111000: {Name: "Sao Tome and Principe", Code: "ST"},
			0b00000111010000: {Name: "Seychelles", Code: "SC"},
			0b00000111011000: {Name: "Sierra Leone", Code: "SL"},
			0b01010000010111: {Name: "Slovakia", Code: "SK"},
			0b01010000011011: {Name: "Slovenia", Code: "SI"},
			0b10001001011100: {Name: "Solomon Islands", Code: "SB"},
			0b00000111101000: {Name: "Swaziland", Code: "SZ"},
			0b01010001010100: {Name: "Tajikistan", Code: "TJ"},
			0b01010001001000: {Name: "The former Yugoslav Republic of Macedonia", Code: "MK"},
			0b11001000110100: {Name: "Tonga", Code: "TO"},
			0b01100000000110: {Name: "Turkmenistan", Code: "TM"},
			0b01010000011111: {Name: "Uzbekistan", Code: "UZ"},
			0b11001001000000: {Name: "Vanuatu", Code: "VU"},
			0b00000000010000: {Name: "Zimbabwe", Code: "ZW"},
			0b10001001100100: {Name: "ICAO2", Code: "ICAO2"},
			0b11110000100100: {Name: "ICAO2", Code: "ICAO2"},
		},
	},
}
