package fares

// Encoded polygon outlines of the Macau fare zones (Google polyline format, lat/lng).
var macauGeofences = map[area]string{
	areaMacauPeninsula: "_kpfCqv}sTdCsCnJShCGpJUbUvDpKfBbMtBhd@lZxBaEnGjEzK`DnHX`DJ`YyF?q|BedAieCo|A?IzAeLOoKtBqDrEsRxh@iRls@ABgCnJl@xAm@|BKb@eEUB`@RlCf@dALl@Hj@@^?d@Ef@S|@LzBRPk@tB?|ACJAlEUx@EdD~B`EvJxDZHvBnABHvAn@MXEJLH`@\\DLDJ?z@yBfP?hJB`AJx@Nt@Hp@l@zBpDhHfEcAPCzHiBfMgC",
	areaTaipa:          "{x`fCmo`tTkNu}@}EiBSMIMCWVeRo@k@wAOoS_@ZmTIyCOGIUAW?SIk@KMMQEQMcASYYKKMYcA]i@Ga@Ea@YU[U{@_AWM]_@WQo@eAa@o@e@i@[SEGGOIm@PYL[Bc@MK@g@Eq@Ic@@c@\\wFUmASMK[AYAM@k@Ak@M_@E[Dm@LYRC`@Oy@qBCGs@uA_BbAKFK@MEIImCcFMHE@K@WAMEKKs@_AkFyJgCmEoBwDW_ACu@@e@BWJc@CI@ISK?cHitD??tjIb}Aam@xhA_~@zlBhC",
	areaColoane:        "{x`fCmo`tTdjA~Ati@cGlGyP?abCohCohCavAxm@lJvPeH~FOb@RJAHBHKb@CVAd@Bt@V~@nBvDfClEjFxJr@~@JJLDV@JADALIlCbFHHLDJAJG~AcAr@tABFx@pBa@NSBMXEl@DZL^@j@Aj@@L@XJZRLTlA]vFAb@Hb@Dp@Af@LJCb@MZQXHl@FNDFZRd@h@`@n@n@dAVP\\^VLz@~@ZTXTD`@F`@\\h@XbAJLXJRXLbADPLPJLHj@?R@VHTNFHxC[lTnS^vANn@j@WdRBVHLRL|EhBjNt}@",
	areaUniversity:     "qmbfCme`tT@`@nAxh@l@n@dfAuBnBcAbQq[CqDA?Q?I?yAEiACyAEiACwCIsXq@Y?aKWwEKiGOqDKuBE_BAoCEgFEo@Cw@A@Z",
	areaHZMBPort:       "cinfCezdtT?g_Aql@??f_Apl@?",
	areaTaipaFerry:     "szgfCyvetTxF??}FyF??|F",
	areaAirport:        "c~ffCcqetTbAVrA\\rAt@dAhAr@~Af@SaA_CkCwBsDy@Kn@",
	areaHengqinPort:    "g`dfCqi_tTno@??o^oo@??n^",
}
