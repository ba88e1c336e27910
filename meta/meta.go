// meta/meta.go
package meta

// MAX_TURNS is the default number of game turns before the game ends.
const MAX_TURNS = 10

// MESSIAH_THRESHOLD is the number of killed forces after which the messiah becomes available.
const MESSIAH_THRESHOLD = 7

// CAPTURE_KILL_REWARD is paid to the capturing faction when it kills a drawn leader instead.
const CAPTURE_KILL_REWARD = 2

// PAYMENT_SHARE is the share of a battle payment received by the faction holding the payment privilege.
const PAYMENT_SHARE = 0.5

// BUREAUCRACY_THRESHOLD is the received payment that triggers the bureaucracy bonus.
const BUREAUCRACY_THRESHOLD = 5

// BANKER_THRESHOLD is the amount paid to the bank that triggers the banker bonus.
const BANKER_THRESHOLD = 4

// AUDITED_CARDS is the number of cards an auditor inspects.
const AUDITED_CARDS = 2

// BUREAUCRACY_BONUS is paid to the bureaucrat when a force payment crosses BUREAUCRACY_THRESHOLD.
const BUREAUCRACY_BONUS = 2

// BANKER_BONUS is paid to the banker when a payment to the bank crosses BANKER_THRESHOLD.
const BANKER_BONUS = 1

const (
	SKILLED_LEADER_BONUS = 3
	SKILLED_PLAYER_BONUS = 1
	THINKER_BONUS        = 2
	MESSIAH_BONUS        = 2
)

// Graduate rescue caps: forces saved in the territory and forces saved to reserves.
const (
	GRADUATE_ON_SITE            = 1
	GRADUATE_TO_RESERVES        = 2
	GRADUATE_PLAYER_TO_RESERVES = 1
)

// USELESS_CARD_BONUS is collected per useless card played with the matching stronghold advantage.
const USELESS_CARD_BONUS = 2

// BATTLE_DISCOUNT is the per-battle cost reduction from the matching stronghold advantage.
const BATTLE_DISCOUNT = 2

// AUDIT_CANCEL_COST is paid per audited card to avoid an audit.
const AUDIT_CANCEL_COST = 1
